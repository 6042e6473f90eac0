// Package render turns fetch outcomes into the text shown and spoken to the
// user.
package render

import (
	"github.com/aryannaik/joke-teller/internal/jokeapi"
	"github.com/aryannaik/joke-teller/internal/speech"
)

const (
	FallbackJoke      = "Cannot get joke, so the joke is...Your love life"
	ServerErrorPrefix = "Wahala wahala "
	// NetworkSpeech and NetworkNotice intentionally differ.
	NetworkSpeech = "Your network is bad dear"
	NetworkNotice = "Your network is bad o"

	twoPartSeparator = " ... "
)

// Sink is where the rendered text is shown.
type Sink int

const (
	// SinkDisplay is the on-screen joke label.
	SinkDisplay Sink = iota
	// SinkError is a transient notification.
	SinkError
)

func (s Sink) String() string {
	if s == SinkError {
		return "error"
	}
	return "display"
}

// Rendering is the user-facing result of one outcome.
type Rendering struct {
	Text   string
	Speech string
	Sink   Sink
	Mode   speech.Mode
}

// Text picks the sentence for a decoded joke. The two-part form wins only
// when both halves are present; otherwise the single joke, otherwise the
// fallback. The type discriminator is ignored.
func Text(joke *jokeapi.Joke) string {
	if joke == nil {
		return FallbackJoke
	}
	if joke.Setup == nil || joke.Delivery == nil {
		if joke.Joke == nil {
			return FallbackJoke
		}
		return *joke.Joke
	}
	return *joke.Setup + twoPartSeparator + *joke.Delivery
}

// Render maps an outcome to its rendering. Successes go to the display and
// queue behind current speech; failures go to the error sink and interrupt it.
func Render(outcome jokeapi.Outcome) Rendering {
	switch outcome.Kind {
	case jokeapi.Success:
		text := Text(outcome.Joke)
		return Rendering{Text: text, Speech: text, Sink: SinkDisplay, Mode: speech.Append}
	case jokeapi.ServerError:
		text := ServerErrorPrefix + outcome.ErrorBody
		return Rendering{Text: text, Speech: text, Sink: SinkError, Mode: speech.Flush}
	default:
		return Rendering{Text: NetworkNotice, Speech: NetworkSpeech, Sink: SinkError, Mode: speech.Flush}
	}
}
