package main

import "github.com/linguanote/linguanote/internal/localstate"

// uiMessages holds the client strings that vary with the interface language.
var uiMessages = map[string]map[string]string{
	"en": {
		"gate.authorized":      "authorized as %s\n",
		"gate.needsUsername":   "signed in, but no username yet; run 'notebookctl username <name>'",
		"gate.unauthenticated": "not authenticated; check your token",
	},
	"ja": {
		"gate.authorized":      "%s として認証済み\n",
		"gate.needsUsername":   "サインイン済みですが、ユーザー名が未設定です。'notebookctl username <name>' を実行してください",
		"gate.unauthenticated": "未認証です。トークンを確認してください",
	},
	"ko": {
		"gate.authorized":      "%s(으)로 인증됨\n",
		"gate.needsUsername":   "로그인했지만 아직 사용자 이름이 없습니다. 'notebookctl username <name>'을 실행하세요",
		"gate.unauthenticated": "인증되지 않았습니다. 토큰을 확인하세요",
	},
}

// uiText returns the message for key in the preferred interface language,
// falling back to English when no translation exists.
func uiText(key string) string {
	lang := "en"
	if prefs, err := localstate.LoadPrefs(); err == nil && prefs.UILanguage != "" {
		lang = prefs.UILanguage
	}
	if s, ok := uiMessages[lang][key]; ok {
		return s
	}
	return uiMessages["en"][key]
}
