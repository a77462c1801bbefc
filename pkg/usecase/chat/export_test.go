package chat

// Exposed for testing
const ProcessingErrorMessageForTest = processingErrorMessage

var RenderSystemPromptForTest = renderSystemPrompt
