// Package fuzztests holds fuzz harnesses for the keyword translator.
//
// Назначение: гонять произвольные байты через translate.Translator со
// встроенными словарями и проверять, что результат восстанавливается из
// списка правок.
//
// Не делает: компиляцию, запуск, запись файлов.
package fuzztests
