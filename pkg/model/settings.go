package model

// BotSettings controls the assistant's persona. A remote settings object may
// override any subset of fields; missing fields keep the defaults.
type BotSettings struct {
	PreferredName  string `json:"preferredName"`
	FallbackPhrase string `json:"fallbackPhrase"`
	Restrictions   string `json:"restrictions"`
	Instructions   string `json:"instructions"`
}

// DefaultBotSettings returns the static default persona used when the remote
// settings object is missing or unreadable.
func DefaultBotSettings() BotSettings {
	return BotSettings{
		PreferredName:  "MeetMeBot",
		FallbackPhrase: "I'm sorry, I don't have that information about Scott.",
		Restrictions:   "Do not discuss salary expectations, private contact details, or anything unrelated to Scott's professional background.",
		Instructions:   "Answer questions about Scott's experience, skills, projects, and goals. Be professional but friendly.",
	}
}

// Merge overlays the given patch onto s. Only non-nil patch fields win;
// everything else keeps its current value.
func (s BotSettings) Merge(patch BotSettingsPatch) BotSettings {
	if patch.PreferredName != nil {
		s.PreferredName = *patch.PreferredName
	}
	if patch.FallbackPhrase != nil {
		s.FallbackPhrase = *patch.FallbackPhrase
	}
	if patch.Restrictions != nil {
		s.Restrictions = *patch.Restrictions
	}
	if patch.Instructions != nil {
		s.Instructions = *patch.Instructions
	}
	return s
}

// BotSettingsPatch is the decoded form of the remote settings object. Pointer
// fields distinguish "absent" from "set to empty".
type BotSettingsPatch struct {
	PreferredName  *string `json:"preferredName"`
	FallbackPhrase *string `json:"fallbackPhrase"`
	Restrictions   *string `json:"restrictions"`
	Instructions   *string `json:"instructions"`
}
