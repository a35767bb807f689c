package telegram

import (
	"errors"
	"fmt"
	"strings"

	"scan1c/internal/domain"
)

const (
	scanButtonText   = "📱 Скан Накладной"
	greetingText     = "Привет! Нажми кнопку для сканирования накладной."
	submittingText   = "⏳ Данные получены, отправляю в 1С..."
	scanningText     = "⏳ Распознаю документ..."
	badWebAppText    = "❌ Не удалось прочитать данные из приложения."
	unsupportedText  = "Пришлите фото накладной или PDF, либо нажмите /start."
	downloadFailText = "❌ Не удалось загрузить файл из Telegram."
)

func submittedText(res *domain.AccountingResult) string {
	num := res.DocNumber
	if num == "" {
		num = "NEW"
	}
	return "✅ Документ создан! Номер: " + num
}

func rejectedText(res *domain.AccountingResult, err error) string {
	msg := "Unknown"
	switch {
	case res != nil && res.Error != "":
		msg = res.Error
	case err != nil:
		msg = err.Error()
	}
	return "❌ Ошибка 1С: " + msg
}

func scanFailedText(err error) string {
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		return "❌ Файл слишком большой."
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return "❌ Формат файла не поддерживается. Нужны JPEG, PNG, WEBP, GIF или PDF."
	default:
		return "❌ Не удалось распознать документ: " + err.Error()
	}
}

// summaryText renders a recognized document as a chat message.
func summaryText(res *domain.DocumentResult) string {
	if res.Failed() {
		return "❌ Не удалось распознать документ: " + res.Error
	}

	var b strings.Builder
	b.WriteString("📄 Накладная")
	if res.DocNumber != "" {
		fmt.Fprintf(&b, " № %s", res.DocNumber)
	}
	if res.DocDate != "" {
		fmt.Fprintf(&b, " от %s", res.DocDate)
	}
	b.WriteByte('\n')
	if res.SupplierINN != "" {
		fmt.Fprintf(&b, "ИНН поставщика: %s\n", res.SupplierINN)
	}
	if res.PageCount > 1 {
		fmt.Fprintf(&b, "Страниц: %d\n", res.PageCount)
	}

	for i, it := range res.Items {
		name := it.ItemName
		if it.ItemArticle != "" {
			name += " (" + it.ItemArticle + ")"
		}
		fmt.Fprintf(&b, "%d. %s: %s × %s = %s\n", i+1, name,
			formatNumber(it.Quantity, 3), formatNumber(it.Price, 2), formatNumber(it.Total, 2))
	}
	fmt.Fprintf(&b, "Итого: %s", formatNumber(res.TotalSum, 2))

	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "\n⚠️ %s", w)
	}
	return b.String()
}

// formatNumber prints v with at most prec decimals and a comma separator.
func formatNumber(v float64, prec int) string {
	s := fmt.Sprintf("%.*f", prec, v)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return strings.Replace(s, ".", ",", 1)
}
