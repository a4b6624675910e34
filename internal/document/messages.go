package document

// User-visible error details.
const (
	msgNoImages       = "PDF uchun rasm topilmadi"
	msgEmbedFailed    = "Rasmlardan birini qayta ishlashda xatolik yuz berdi"
	msgBuildCancelled = "PDF yaratish to'xtatildi"
)
