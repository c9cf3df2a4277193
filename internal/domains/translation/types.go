package translation

const StatusCompleted = "completed"

// Result is returned by both pipelines.
// @Description Transcription and translation result
type Result struct {
	TextVI         string  `json:"text_vi" example:"Xin chào các bạn"`
	TextEN         string  `json:"text_en" example:"Hello everyone"`
	ProcessingTime float64 `json:"processing_time" example:"1.42"`
	Status         string  `json:"status" example:"completed"`
}

// TranslateTextRequest is the body of the text endpoint.
// @Description Text translation body
type TranslateTextRequest struct {
	Text *string `json:"text" example:"Xin chào"`
}

// Job stages, in pipeline order.
const (
	StageReceived    = "received"
	StageStored      = "stored"
	StageDecoded     = "decoded"
	StageTranscribed = "transcribed"
	StageTranslated  = "translated"
	StageCompleted   = "completed"
	StageFailed      = "failed"
)

const (
	eventStore      = "store"
	eventDecode     = "decode"
	eventTranscribe = "transcribe"
	eventTranslate  = "translate"
	eventComplete   = "complete"
	eventFail       = "fail"
)
