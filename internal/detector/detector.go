// Package detector identifies the language of generated text, used by the
// verify command to check that a file's content matches its declared
// language code.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minDetectRunes is the minimum rune count for a reliable detection; shorter
// texts are reported as unknown.
const minDetectRunes = 20

// iso3ByCode maps the project's 3-letter language codes to ISO 639-3 codes
// understood by lingua. Codes missing here cannot be verified.
var iso3ByCode = map[string]lingua.IsoCode639_3{
	"eng": lingua.ENG,
	"rus": lingua.RUS,
	"spa": lingua.SPA,
	"fra": lingua.FRA,
	"deu": lingua.DEU,
	"ita": lingua.ITA,
	"por": lingua.POR,
	"ukr": lingua.UKR,
	"pol": lingua.POL,
	"tur": lingua.TUR,
	"jpn": lingua.JPN,
	"kor": lingua.KOR,
	"zho": lingua.ZHO,
	"hin": lingua.HIN,
	"ara": lingua.ARA,
}

// The detector model is expensive to build; construct one per process.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	langs := make([]lingua.Language, 0, len(iso3ByCode))
	for _, iso := range iso3ByCode {
		langs = append(langs, lingua.GetLanguageFromIsoCode639_3(iso))
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(langs...).
			Build(),
	}
}

// Supported reports whether a project language code can be verified at all.
func Supported(code string) bool {
	_, ok := iso3ByCode[strings.ToLower(code)]
	return ok
}

// Matches reports whether text appears to be written in the language named
// by the project code. Short or ambiguous texts match unconditionally: a
// failed detection is not evidence of a wrong language.
func (d *Detector) Matches(text, code string) bool {
	want, ok := iso3ByCode[strings.ToLower(code)]
	if !ok {
		return true
	}
	if len([]rune(strings.TrimSpace(text))) < minDetectRunes {
		return true
	}

	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return true
	}
	return detected.IsoCode639_3() == want
}

// Detect returns the project-style lowercase ISO 639-3 code of the detected
// language, or "" when detection fails.
func (d *Detector) Detect(text string) string {
	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(detected.IsoCode639_3().String())
}
