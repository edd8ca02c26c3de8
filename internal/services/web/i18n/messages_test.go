package i18n

import (
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var allKeys = []string{
	KeyAppName, KeyPageTitle, KeyPageIntro, KeyFormPostcode, KeyFormNumSchools,
	KeyFormSubmit, KeyLoading, KeyResultsHeading, KeyResultsEmpty,
	KeySchoolAddress, KeySchoolPostcode, KeySchoolDistance, KeySchoolTelephone,
	KeySchoolMap, KeyErrorGeneric, KeyPromptRequired, KeyLanguage,
	KeyErrorNotFound, KeyErrorNotAllowed, KeyErrorInternal, KeyErrorBackHome,
}

func TestEveryKeyIsTranslated(t *testing.T) {
	t.Parallel()

	for _, tag := range []language.Tag{language.BritishEnglish, welsh} {
		printer := message.NewPrinter(tag)
		for _, key := range allKeys {
			if got := printer.Sprintf(key); got == key {
				t.Fatalf("%s: key %q has no translation", tag, key)
			}
		}
	}
}

func TestEnglishCopyMatchesPage(t *testing.T) {
	t.Parallel()

	printer := message.NewPrinter(language.BritishEnglish)
	tests := map[string]string{
		KeyResultsHeading: "Nearby Schools:",
		KeyErrorGeneric:   "An error occurred. Please try again.",
		KeyLoading:        "Loading schools...",
	}
	for key, want := range tests {
		if got := printer.Sprintf(key); got != want {
			t.Fatalf("Sprintf(%q) = %q, want %q", key, got, want)
		}
	}
	if got := printer.Sprintf(KeyPromptRequired); got != "Please enter both Postcode and number of schools." {
		t.Fatalf("required prompt = %q", got)
	}
}
