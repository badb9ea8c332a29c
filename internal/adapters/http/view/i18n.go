package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// messages maps a message key (the English text) to its Turkish translation.
var messages = map[string]string{
	// navigation and titles
	"Dashboard":   "Dashboard",
	"Members":     "Üyeler",
	"Trainers":    "Antrenörler",
	"Programs":    "Programlar",
	"Settings":    "Ayarlar",
	"Help":        "Yardım",
	"Performance": "Performans",
	"Logout":      "Çıkış",
	"Login":       "Giriş",
	"Gym Admin":   "Salon Yönetimi",

	// login
	"Username":                   "Kullanıcı adı",
	"Password":                   "Şifre",
	"Login failed":               "Giriş başarısız",
	"Could not reach the server": "Sunucuya bağlanılamadı",

	// stats
	"Total members":  "Toplam üye",
	"Active members": "Aktif üye",
	"People inside":  "İçerideki kişi",
	"Total trainers": "Toplam antrenör",

	// members
	"Recent members":           "Son üyeler",
	"No members yet":           "Henüz üye yok",
	"Name":                     "Ad",
	"Email":                    "Email",
	"Type":                     "Tür",
	"Remaining":                "Kalan",
	"Status":                   "Durum",
	"Actions":                  "İşlemler",
	"Timed":                    "Süreli",
	"Credit":                   "Kredili",
	"Active":                   "Aktif",
	"Inactive":                 "Pasif",
	"%d days":                  "%d gün",
	"%d entries":               "%d giriş",
	"Search members":           "Üye ara",
	"Search":                   "Ara",
	"Export":                   "Dışa aktar",
	"Add member":               "Üye ekle",
	"Membership type":          "Üyelik türü",
	"Days":                     "Gün",
	"Credits":                  "Kredi",
	"Credit total":             "Toplam kredi",
	"Credit used":              "Kullanılan kredi",
	"Edit membership":          "Üyeliği düzenle",
	"Add balance":              "Bakiye ekle",
	"Amount":                   "Miktar",
	"Number of days":           "Gün sayısı",
	"Number of entries":        "Giriş hakkı",
	"Email is required!":       "Email gerekli!",
	"Invalid membership type!": "Geçersiz üyelik tipi!",
	"Member added!":            "Üye başarıyla eklendi!",
	"Could not add member":     "Üye eklenemedi",
	"Membership updated!":      "Üyelik güncellendi!",
	"Update failed":            "Güncelleme başarısız",
	"Balance added!":           "Bakiye eklendi!",
	"Operation failed":         "İşlem başarısız",

	// trainers
	"No trainers yet":                          "Henüz antrenör yok",
	"Specialty":                                "Uzmanlık",
	"Rating":                                   "Puan",
	"In gym":                                   "Salonda",
	"Out":                                      "Dışarıda",
	"Yes":                                      "Evet",
	"No":                                       "Hayır",
	"Linked member":                            "Bağlı üye",
	"Add trainer":                              "Antrenör ekle",
	"Edit trainer":                             "Antrenörü düzenle",
	"-- Pick an existing member (optional) --": "-- Mevcut üye seçin (opsiyonel) --",
	"Fill in all fields!":                      "Tüm alanları doldurun!",
	"Trainer added!":                           "Antrenör eklendi!",
	"Could not add trainer":                    "Antrenör eklenemedi",
	"Trainer updated!":                         "Antrenör güncellendi!",

	// programs
	"No programs yet":                        "Henüz program yok",
	"Title":                                  "Başlık",
	"Duration (min)":                         "Süre (dk)",
	"Exercises":                              "Egzersizler",
	"Add program":                            "Program ekle",
	"Edit program":                           "Programı düzenle",
	"Manage exercises":                       "Egzersizleri yönet",
	"No exercises in this program":           "Bu programda egzersiz yok",
	"Order":                                  "Sıra",
	"Exercise":                               "Egzersiz",
	"Muscle group":                           "Kas grubu",
	"Sets":                                   "Set",
	"Reps":                                   "Tekrar",
	"Rest (s)":                               "Dinlenme (sn)",
	"-- Pick an exercise --":                 "-- Egzersiz seçin --",
	"Add exercise":                           "Egzersiz ekle",
	"Remove":                                 "Çıkar",
	"Remove this exercise from the program?": "Bu egzersiz programdan çıkarılsın mı?",
	"Title is required!":                     "Başlık gerekli!",
	"Pick an exercise!":                      "Egzersiz seçin!",
	"Program created!":                       "Program oluşturuldu!",
	"Could not create program":               "Program oluşturulamadı",
	"Program updated!":                       "Program güncellendi!",
	"Exercise added!":                        "Egzersiz eklendi!",
	"Could not add exercise":                 "Egzersiz eklenemedi",
	"Exercise removed!":                      "Egzersiz çıkarıldı!",
	"Could not remove exercise":              "Egzersiz çıkarılamadı",
	"Program not found":                      "Program bulunamadı",

	// delete
	"Delete":                                "Sil",
	"Cancel":                                "İptal",
	"Save":                                  "Kaydet",
	"Edit":                                  "Düzenle",
	"Back":                                  "Geri",
	"\"%s\" will be deleted. Are you sure?": "\"%s\" silinecek. Emin misiniz?",
	"Confirm delete":                        "Silme onayı",
	"Deleted!":                              "Silindi!",
	"Delete failed":                         "Silme başarısız",
	"Unknown item type":                     "Bilinmeyen kayıt türü",

	// misc
	"Server error":         "Sunucu hatası",
	"Close":                "Kapat",
	"Gym name":             "Salon adı",
	"Location":             "Konum",
	"Capacity":             "Kapasite",
	"Admin username":       "Admin kullanıcı adı",
	"Gym ID":               "Salon ID",
	"Could not load: %s":   "Yüklenemedi: %s",
	"Loading…":             "Yükleniyor…",
	"Requests p50/p95/p99": "İstek p50/p95/p99",
	"API calls p95":        "API çağrısı p95",
	"API call errors":      "API çağrı hataları",
	"Slowest pages":        "En yavaş sayfalar",
	"Slowest API calls":    "En yavaş API çağrıları",
	"Slowest queries":      "En yavaş sorgular",
	"Path":                 "Yol",
	"Avg ms":               "Ort. ms",
	"Max ms":               "Maks. ms",
	"Count":                "Adet",
	"Recorded entries":     "Kayıtlı ölçüm",
}

// newCatalog builds the en/tr catalog. English texts are their own keys.
func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range messages {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Turkish, key, tr)
	}
	return b
}

// Translator renders catalog messages in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator returns a translator for lang ("en" or "tr"); anything else is English.
func NewTranslator(lang string) Translator {
	tag := language.English
	if lang == "tr" {
		tag = language.Turkish
	}
	return Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(newCatalog()))}
}

// T formats the message for key with args.
func (t Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Tag returns the translator's language.
func (t Translator) Tag() language.Tag {
	return t.tag
}
