package observability

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"

	// AttrHTTPDuration is the wall-clock time of the round trip
	AttrHTTPDuration = "http.request.duration"
)

// --- Pipeline Attributes ---

const (
	// AttrStripTags lists the tag names removed before conversion
	AttrStripTags = "convert.strip_tags"

	// AttrStripStrategy names the stripping strategy that produced the output
	AttrStripStrategy = "convert.strip_strategy"

	// AttrMarkdownSize is the size of the produced markdown in bytes
	AttrMarkdownSize = "convert.markdown.size"
)

// --- Tool Execution Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolInput is the tool input (serialized)
	AttrToolInput = "tool.input"

	// AttrToolOutput is the tool output (serialized)
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message if tool execution failed
	AttrToolError = "tool.error"
)

// --- Error Attributes ---

const (
	// AttrError carries an error message
	AttrError = "error"

	// AttrErrorKind is the fetch error classification (connection, not_found, ...)
	AttrErrorKind = "error.kind"
)

// --- Span and Event Names ---

const (
	SpanFetch   = "marketdata.fetch"
	SpanConvert = "marketdata.convert"
	SpanTool    = "marketdata.tool"

	EventHTTPRequestPrepared  = "http.request.prepared"
	EventHTTPResponseReceived = "http.response.received"
	EventHTTPRequestError     = "http.request.error"
	EventStripFallback        = "convert.strip.fallback"
	EventToolExecutionStart   = "tool.execution.start"
	EventToolExecutionEnd     = "tool.execution.end"
)
