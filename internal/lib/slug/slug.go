// Package slug содержит нормализацию слагов сайтов.
// Каноническая форма — обрезанные пробелы и верхний регистр; все операции
// с хранилищем по слагу обязаны использовать только её.
package slug

import "strings"

// Normalize приводит слаг к канонической форме.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
