package jokeapi

// Joke is the decoded JokeAPI response body. Every field is optional; a nil
// pointer means the key was absent or null.
type Joke struct {
	Category *string `json:"category"`
	Delivery *string `json:"delivery"`
	Error    *bool   `json:"error"`
	Flags    *Flags  `json:"flags"`
	ID       *int    `json:"id"`
	Lang     *string `json:"lang"`
	Safe     *bool   `json:"safe"`
	Setup    *string `json:"setup"`
	Joke     *string `json:"joke"`
	Type     *string `json:"type"`
}

// Flags are the content warnings attached to a joke.
type Flags struct {
	NSFW      *bool `json:"nsfw"`
	Religious *bool `json:"religious"`
	Political *bool `json:"political"`
	Racist    *bool `json:"racist"`
	Sexist    *bool `json:"sexist"`
	Explicit  *bool `json:"explicit"`
}

// OutcomeKind tells which of the three terminal results a fetch produced.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	ServerError
	TransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case ServerError:
		return "server_error"
	case TransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of one fetch. Joke is set for Success, StatusCode
// and ErrorBody for ServerError. Err carries the cause of either failure.
type Outcome struct {
	Kind       OutcomeKind
	Category   Category
	Joke       *Joke
	StatusCode int
	ErrorBody  string
	Err        error
}
