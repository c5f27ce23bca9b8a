package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed js/countdown.js
var countdownJS []byte

// CountdownVars is exposed to the countdown script as window.flashoffers_vars
type CountdownVars struct {
	CountdownFormat string `json:"countdown_format"`
}

// CountdownScript returns the client countdown script preceded by its
// configuration prelude
func CountdownScript(vars CountdownVars) ([]byte, error) {
	encoded, err := json.Marshal(vars)
	if err != nil {
		return nil, fmt.Errorf("failed to encode countdown vars: %w", err)
	}

	prelude := fmt.Sprintf("window.flashoffers_vars = %s;\n", encoded)
	out := make([]byte, 0, len(prelude)+len(countdownJS))
	out = append(out, prelude...)
	out = append(out, countdownJS...)
	return out, nil
}
