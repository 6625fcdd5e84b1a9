// Package i18n holds the translated texts sent to operators: push reminders and the pickup
// sheet. Polish is the default language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	ReminderHead   = "reminder.head"
	ReminderSingle = "reminder.single"
	ReminderGroup  = "reminder.group"
	TestHead       = "test.head"
	TestBody       = "test.body"
	SheetTitle     = "sheet.title"
	SheetEmpty     = "sheet.empty"
	SheetFlight    = "sheet.flight"
	ColTime        = "col.time"
	ColPlate       = "col.plate"
	ColCustomer    = "col.customer"
	ColPhone       = "col.phone"
	ColPassengers  = "col.passengers"
	ColPaid        = "col.paid"
	Yes            = "yes"
	No             = "no"
)

// Supported languages, the default first.
var Supported = []language.Tag{language.Polish, language.English, language.Ukrainian}

var matcher = language.NewMatcher(Supported)

var texts = map[language.Tag]map[string]string{
	language.Polish: {
		ReminderHead:   "Zbliża się odbiór",
		ReminderSingle: "%s (%s) wraca o %s",
		ReminderGroup:  "Lot %s: %d rezerwacji, przylot o %s",
		TestHead:       "Powiadomienie testowe",
		TestBody:       "Powiadomienia działają poprawnie.",
		SheetTitle:     "Odbiory na dzień %s",
		SheetEmpty:     "Brak odbiorów.",
		SheetFlight:    "Lot %s",
		ColTime:        "Godzina",
		ColPlate:       "Rejestracja",
		ColCustomer:    "Klient",
		ColPhone:       "Telefon",
		ColPassengers:  "Osoby",
		ColPaid:        "Opłacone",
		Yes:            "tak",
		No:             "nie",
	},
	language.English: {
		ReminderHead:   "Upcoming pickup",
		ReminderSingle: "%s (%s) returns at %s",
		ReminderGroup:  "Flight %s: %d reservations, arriving at %s",
		TestHead:       "Test notification",
		TestBody:       "Notifications are working.",
		SheetTitle:     "Pickups on %s",
		SheetEmpty:     "No pickups.",
		SheetFlight:    "Flight %s",
		ColTime:        "Time",
		ColPlate:       "Plate",
		ColCustomer:    "Customer",
		ColPhone:       "Phone",
		ColPassengers:  "Pax",
		ColPaid:        "Paid",
		Yes:            "yes",
		No:             "no",
	},
	language.Ukrainian: {
		ReminderHead:   "Наближається повернення",
		ReminderSingle: "%s (%s) повертається о %s",
		ReminderGroup:  "Рейс %s: %d бронювань, приліт о %s",
		TestHead:       "Тестове сповіщення",
		TestBody:       "Сповіщення працюють.",
		SheetTitle:     "Повернення на %s",
		SheetEmpty:     "Немає повернень.",
		SheetFlight:    "Рейс %s",
		ColTime:        "Час",
		ColPlate:       "Номер",
		ColCustomer:    "Клієнт",
		ColPhone:       "Телефон",
		ColPassengers:  "Осіб",
		ColPaid:        "Оплачено",
		Yes:            "так",
		No:             "ні",
	},
}

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Polish))
	for tag, msgs := range texts {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Match returns the supported language that best fits the given preferences. Each preference
// may be a language code or an Accept-Language header value; empty values are skipped.
func Match(prefs ...string) language.Tag {
	for _, pref := range prefs {
		if pref == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		if _, idx, conf := matcher.Match(tags...); conf != language.No {
			return Supported[idx]
		}
	}
	return Supported[0]
}

// Valid reports whether code names a supported language exactly.
func Valid(code string) bool {
	for _, tag := range Supported {
		if tag.String() == code {
			return true
		}
	}
	return false
}

// Translator prints messages in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// For returns a translator for the best match of prefs.
func For(prefs ...string) Translator {
	tag := Match(prefs...)
	return Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Language returns the language code of t.
func (t Translator) Language() string {
	return t.tag.String()
}

// T formats the message stored under key.
func (t Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
