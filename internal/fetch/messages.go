package fetch

import "fmt"

// User-visible error details.
const (
	msgDownloadFailed = "Rasmni yuklab bo'lmadi"
	msgImageTooLarge  = "Rasm hajmi juda katta"
)

func statusMessage(code int) string {
	return fmt.Sprintf("Rasmni yuklashda xatolik: %d", code)
}
