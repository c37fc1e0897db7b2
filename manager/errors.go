package manager

import "errors"

var (
	ErrInputEmpty           = errors.New("empty city name")
	ErrLocationNotFound     = errors.New("location not found")
	ErrWeatherUnavailable   = errors.New("weather unavailable")
	ErrHistoryWrite         = errors.New("history write failed")
	ErrRenderFault          = errors.New("render fault")
	ErrDictationFailed      = errors.New("dictation failed")
	ErrDictationUnsupported = errors.New("dictation unsupported")
)

const (
	StatusReady            = "Ready"
	StatusEnterCity        = "Enter a city name"
	StatusSearching        = "Searching..."
	StatusCityNotFound     = "City not found"
	StatusFetching         = "Fetching weather..."
	StatusWeatherError     = "Weather fetch error"
	StatusUpdated          = "Updated"
	StatusFailed           = "Failed"
	StatusRenderError      = "UI update error"
	StatusListening        = "Listening..."
	StatusVoiceDone        = "Voice input done"
	StatusVoiceFailed      = "Voice failed"
	StatusVoiceUnsupported = "SpeechRecognition not installed"
)

// StatusFor maps a pipeline error to the short text shown to the user.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusUpdated
	case errors.Is(err, ErrInputEmpty):
		return StatusEnterCity
	case errors.Is(err, ErrLocationNotFound):
		return StatusCityNotFound
	case errors.Is(err, ErrWeatherUnavailable):
		return StatusWeatherError
	case errors.Is(err, ErrRenderFault):
		return StatusRenderError
	case errors.Is(err, ErrDictationUnsupported):
		return StatusVoiceUnsupported
	case errors.Is(err, ErrDictationFailed):
		return StatusVoiceFailed
	default:
		return StatusFailed
	}
}
