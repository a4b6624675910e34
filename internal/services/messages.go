package services

import "fmt"

// User-visible texts.
const (
	ConvertButtonText = "PDF yaratish"

	msgGreeting        = "Salom! Menga bir yoki bir nechta rasm yuboring, men ularni PDF formatiga o'zgartiraman."
	msgNeedImage       = "Avval kamida bitta rasm yuborishingiz kerak!"
	msgAssemblyStarted = "PDF yaratish boshlandi..."
	msgDocumentCaption = "PDF faylingiz tayyor!"
	msgAnswerSuccess   = "PDF muvaffaqiyatli yaratildi!"
	msgAnswerFailed    = "Xatolik yuz berdi!"
	msgNoPhoto         = "Noto'g'ri rasm formati"
	msgNoFileLocation  = "Faylni yuklab bo'lmadi"

	msgArtifactSaveFailed = "PDF faylni saqlab bo'lmadi"
	msgDeliveryFailed     = "PDF faylni yuborib bo'lmadi"
)

func imageAcceptedMessage(count int) string {
	return fmt.Sprintf("Rasm qabul qilindi! Jami rasmlar soni: %d", count)
}

func imageFailedMessage(detail string) string {
	return fmt.Sprintf("Rasmni qayta ishlashda xatolik yuz berdi: %s. Iltimos, qaytadan urinib ko'ring.", detail)
}

func assemblyFailedMessage(detail string) string {
	return fmt.Sprintf("PDF yaratishda xatolik yuz berdi: %s. Iltimos, qaytadan urinib ko'ring.", detail)
}
