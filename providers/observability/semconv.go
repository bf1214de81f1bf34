package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "gemini", "openai")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the response identifier returned by the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the model stopped generating
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTemperature is the sampling temperature sent with the request
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMTokensTotal is the total token count of a call
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Embedding Attributes ---

const (
	// AttrEmbeddingModel is the embedding model identifier
	AttrEmbeddingModel = "embedding.model"

	// AttrEmbeddingDimensions is the length of produced vectors
	AttrEmbeddingDimensions = "embedding.dimensions"

	// AttrEmbeddingInputs is the number of texts embedded in one request
	AttrEmbeddingInputs = "embedding.inputs"
)

// --- Tool Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolCallID correlates a tool call with its result
	AttrToolCallID = "tool.call_id"

	// AttrToolInput is the JSON input passed to the tool
	AttrToolInput = "tool.input"

	// AttrToolOutput is the JSON output returned by the tool
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the duration of the tool execution
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error returned by the tool
	AttrToolError = "tool.error"

	// AttrToolNames lists the registered tools in registration order
	AttrToolNames = "tool.names"
)

// --- Retrieval Attributes ---

const (
	// AttrIndexDocuments is the number of documents held by the index
	AttrIndexDocuments = "index.documents"

	// AttrIndexQuery is the text used to query the index
	AttrIndexQuery = "index.query"

	// AttrIndexTopN is the number of matches requested
	AttrIndexTopN = "index.top_n"

	// AttrIndexBestScore is the similarity of the best match
	AttrIndexBestScore = "index.best_score"

	// AttrIndexDocumentPosition is the 0-based position of a document in the ingestion batch
	AttrIndexDocumentPosition = "index.document.position"
)

// --- Request / Agent Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages sent to the model
	AttrRequestMessagesCount = "request.messages_count"

	// AttrRequestToolsCount is the number of tools advertised to the model
	AttrRequestToolsCount = "request.tools_count"

	// AttrRequestDocumentsCount is the number of context documents injected
	AttrRequestDocumentsCount = "request.documents_count"

	// AttrAgentSessionID identifies the history a turn belongs to
	AttrAgentSessionID = "agent.session_id"

	// AttrAgentPrompt is the user prompt of the turn
	AttrAgentPrompt = "agent.prompt"

	// AttrAgentIteration is the 1-based model call count within a turn
	AttrAgentIteration = "agent.iteration"

	// AttrAgentDroppedToolCalls counts tool calls ignored after the first one
	AttrAgentDroppedToolCalls = "agent.dropped_tool_calls"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- Memory Attributes ---

const (
	// AttrMemoryMessageRole is the role of the appended message
	AttrMemoryMessageRole = "memory.message.role"

	// AttrMemoryMessageItems is the number of content items of the appended message
	AttrMemoryMessageItems = "memory.message.items"

	// AttrMemoryTotalMessages is the history length after the operation
	AttrMemoryTotalMessages = "memory.total_messages"
)

// --- Generic Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is a generic duration
	AttrDuration = "duration"

	// AttrStatus is the final status of a span
	AttrStatus = "status"

	// AttrStatusDescription describes the final status
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanAgentRunTurn covers one RunTurn call
	SpanAgentRunTurn = "agent.run_turn"

	// SpanAgentModelCall covers one request to the language model
	SpanAgentModelCall = "agent.model_call"

	// SpanIndexBuild covers index ingestion
	SpanIndexBuild = "index.build"
)

// --- Event Names ---

const (
	EventLLMRequestStart     = "llm.request.start"
	EventLLMRequestEnd       = "llm.request.end"
	EventToolExecutionStart  = "tool.execution.start"
	EventToolExecutionEnd    = "tool.execution.end"
	EventTokensReceived      = "llm.tokens.received" // #nosec G101 -- Not a credential, token refers to LLM tokens
	EventContextRetrieved    = "index.context.retrieved"
	EventMemoryAppend        = "memory.append"
	EventMemoryClear         = "memory.clear"
	EventDocumentEmbedded    = "index.document.embedded"
	EventHTTPRequestPrepared = "http.request.prepared"
	EventHTTPRequestError    = "http.request.error"
	EventHTTPResponse        = "http.response.received"
)

// --- Metric Names ---

const (
	MetricAgentModelCalls   = "ragcalc.agent.model_calls"
	MetricAgentToolCalls    = "ragcalc.agent.tool_calls"
	MetricAgentTurnDuration = "ragcalc.agent.turn.duration"
	MetricAgentTurnErrors   = "ragcalc.agent.turn.errors"
	MetricIndexQueries      = "ragcalc.index.queries"
)
