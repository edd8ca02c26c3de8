// Package i18n registers the localized strings rendered by the web service.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys shared by templates, handlers and the browser script.
const (
	KeyAppName         = "app.name"
	KeyPageTitle       = "page.title"
	KeyPageIntro       = "page.intro"
	KeyFormPostcode    = "form.postcode"
	KeyFormNumSchools  = "form.num_schools"
	KeyFormSubmit      = "form.submit"
	KeyLoading         = "results.loading"
	KeyResultsHeading  = "results.heading"
	KeyResultsEmpty    = "results.empty"
	KeySchoolAddress   = "school.address"
	KeySchoolPostcode  = "school.postcode"
	KeySchoolDistance  = "school.distance"
	KeySchoolTelephone = "school.telephone"
	KeySchoolMap       = "school.map"
	KeyErrorGeneric    = "error.generic"
	KeyPromptRequired  = "prompt.required"
	KeyErrorNotFound   = "error.not_found"
	KeyErrorNotAllowed = "error.method_not_allowed"
	KeyErrorInternal   = "error.internal"
	KeyErrorBackHome   = "error.back_home"
	KeyLanguage        = "nav.language"
)

var welsh = language.Make("cy")

func init() {
	en := language.BritishEnglish
	set(en, KeyAppName, "School Finder")
	set(en, KeyPageTitle, "Find nearby schools")
	set(en, KeyPageIntro, "Enter a postcode and how many schools you would like to see.")
	set(en, KeyFormPostcode, "Postcode")
	set(en, KeyFormNumSchools, "Number of schools")
	set(en, KeyFormSubmit, "Find schools")
	set(en, KeyLoading, "Loading schools...")
	set(en, KeyResultsHeading, "Nearby Schools:")
	set(en, KeyResultsEmpty, "No schools were found near this postcode.")
	set(en, KeySchoolAddress, "Address:")
	set(en, KeySchoolPostcode, "Postcode:")
	set(en, KeySchoolDistance, "Distance:")
	set(en, KeySchoolTelephone, "Telephone:")
	set(en, KeySchoolMap, "View on map")
	set(en, KeyErrorGeneric, "An error occurred. Please try again.")
	set(en, KeyPromptRequired, "Please enter both Postcode and number of schools.")
	set(en, KeyErrorNotFound, "Page not found")
	set(en, KeyErrorNotAllowed, "Method not allowed")
	set(en, KeyErrorInternal, "Something went wrong")
	set(en, KeyErrorBackHome, "Back to school search")
	set(en, KeyLanguage, "Language")

	set(welsh, KeyAppName, "Chwilio am Ysgolion")
	set(welsh, KeyPageTitle, "Dod o hyd i ysgolion cyfagos")
	set(welsh, KeyPageIntro, "Rhowch god post a nifer yr ysgolion yr hoffech eu gweld.")
	set(welsh, KeyFormPostcode, "Cod post")
	set(welsh, KeyFormNumSchools, "Nifer yr ysgolion")
	set(welsh, KeyFormSubmit, "Chwilio")
	set(welsh, KeyLoading, "Yn llwytho ysgolion...")
	set(welsh, KeyResultsHeading, "Ysgolion cyfagos:")
	set(welsh, KeyResultsEmpty, "Ni chafwyd hyd i ysgolion ger y cod post hwn.")
	set(welsh, KeySchoolAddress, "Cyfeiriad:")
	set(welsh, KeySchoolPostcode, "Cod post:")
	set(welsh, KeySchoolDistance, "Pellter:")
	set(welsh, KeySchoolTelephone, "Ffôn:")
	set(welsh, KeySchoolMap, "Gweld ar fap")
	set(welsh, KeyErrorGeneric, "Digwyddodd gwall. Rhowch gynnig arall arni.")
	set(welsh, KeyPromptRequired, "Rhowch y cod post a nifer yr ysgolion.")
	set(welsh, KeyErrorNotFound, "Heb ddod o hyd i'r dudalen")
	set(welsh, KeyErrorNotAllowed, "Ni chaniateir y dull hwn")
	set(welsh, KeyErrorInternal, "Aeth rhywbeth o'i le")
	set(welsh, KeyErrorBackHome, "Yn ôl i chwilio am ysgolion")
	set(welsh, KeyLanguage, "Iaith")
}

func set(tag language.Tag, key string, msg string) {
	if err := message.SetString(tag, key, msg); err != nil {
		panic("register message " + key + ": " + err.Error())
	}
}
