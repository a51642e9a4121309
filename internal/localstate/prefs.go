package localstate

import (
	"encoding/json"
	"os"
)

// Prefs is the terminal client's persisted state.
type Prefs struct {
	// StudyLanguage is the language tag the client opens by default.
	StudyLanguage string `json:"studyLanguage,omitempty"`
	// UILanguage selects the language of the client's own messages.
	UILanguage string `json:"uiLanguage,omitempty"`
	// ServiceURL is the notebook service base URL.
	ServiceURL string `json:"serviceUrl,omitempty"`
	// Token is the bearer token presented to the service.
	Token string `json:"token,omitempty"`
}

// LoadPrefs reads the preferences file. A missing file yields zero prefs.
func LoadPrefs() (*Prefs, error) {
	path, err := PrefsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Prefs{}, nil
	}
	if err != nil {
		return nil, err
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePrefs writes the preferences file with 0600 permissions.
func SavePrefs(p *Prefs) error {
	path, err := PrefsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
