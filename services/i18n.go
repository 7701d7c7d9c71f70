package services

import (
	"fmt"
	"strconv"
	"strings"
)

var translations = map[string]map[string]string{
	"en": {
		"login":              "Login",
		"logout":             "Logout",
		"email":              "Email",
		"password":           "Password",
		"dashboard":          "Dashboard",
		"sensors":            "Sensors",
		"sensorTypes":        "Sensor types",
		"packageTypes":       "Package types",
		"role":               "Role",
		"name":               "Name",
		"value":              "Value",
		"update":             "Update",
		"noEntries":          "No entries.",
		"invalidCredentials": "Invalid email or password.",
		"sensorUpdated":      "Sensor updated.",
	},
	"de": {
		"login":              "Anmelden",
		"logout":             "Abmelden",
		"email":              "Email",
		"password":           "Passwort",
		"dashboard":          "Übersicht",
		"sensors":            "Sensoren",
		"sensorTypes":        "Sensortypen",
		"packageTypes":       "Pakettypen",
		"role":               "Rolle",
		"name":               "Name",
		"value":              "Wert",
		"update":             "Aktualisieren",
		"noEntries":          "Keine Einträge.",
		"invalidCredentials": "Ungültige Email oder ungültiges Passwort.",
		"sensorUpdated":      "Sensor aktualisiert.",
	},
}

func Translate(lang, key string) (string, error) {
	t, ok := translations[lang]
	if !ok {
		t = translations["en"]
	}
	v, ok := t[key]
	if !ok {
		v, ok = translations["en"][key]
		if !ok {
			return "", fmt.Errorf("unknown key: %s", key)
		}
	}
	return v, nil
}

func MustTranslate(lang, key string) string {
	v, err := Translate(lang, key)
	if err != nil {
		panic(err)
	}
	return v
}

func GetLanguageFromAcceptLanguageHeader(headerValue string) string {
	lang := "en"
	quality := float64(0)

	strs := strings.Split(headerValue, ",")
	for _, s := range strs {
		parts := strings.Split(s, ";")
		q := float64(1)
		if len(parts) > 1 {
			qStr := strings.TrimSpace(parts[1])
			qStr = strings.TrimPrefix(qStr, "q=")
			if v, err := strconv.ParseFloat(qStr, 64); err == nil {
				q = v
			}
		}

		if q > quality {
			l := strings.ToLower(strings.TrimSpace(strings.Split(parts[0], "-")[0]))
			if _, ok := translations[l]; ok {
				lang = l
				quality = q
			}
		}
	}

	return lang
}
