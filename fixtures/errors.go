package fixtures

import "errors"

// ErrUnknownScenario is returned when no embedded scenario has the given ID.
var ErrUnknownScenario = errors.New("unknown scenario")
