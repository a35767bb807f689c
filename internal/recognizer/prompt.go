package recognizer

// BuildInvoicePrompt returns the extraction prompt for Russian primary documents.
// The schema keys match domain.PageResult and domain.LineItem.
func BuildInvoicePrompt() string {
	return `Проанализируй изображение документа (Накладная, УПД, ТОРГ-12, Счет на оплату, Чек).
Извлеки данные в строгом JSON формате. Соблюдай регистр ключей (PascalCase).

ВАЖНО ПРО ЧИСЛА: В русских документах запятая (например "1,000" или "5,5") - это десятичный разделитель.
Преобразуй их в формат JSON с точкой (например 1.0 или 5.5).
Не путай с разделителем тысяч! "1,000" в графе количество - это число 1 (один), а не 1000.

Если документ занимает несколько страниц, а на изображении только одна из них,
верни данные только этой страницы. Если заголовка (ИНН, номер, дата) на странице нет, оставь пустые строки.

Структура:
{
    "SupplierINN": "ИНН продавца (только цифры)",
    "DocNumber": "Номер документа",
    "DocDate": "Дата (ДД.ММ.ГГГГ)",
    "TotalSum": число (float, итог по документу, если указан),
    "Items": [
        {
            "ItemName": "Название товара",
            "ItemArticle": "Артикул (или пустая строка)",
            "Quantity": число (float),
            "Price": число (float),
            "Total": число (float)
        }
    ]
}

Верни ТОЛЬКО JSON-объект: без пояснений, без markdown и без блоков кода.`
}
