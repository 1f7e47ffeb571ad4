// Package fuzztests houses Go fuzz harnesses for the inputs jsema reads from
// disk: generic signatures and stub index documents. Harnesses check that
// arbitrary bytes never panic the parsers and that rejections stay well
// formed.
//
// Назначение: гонять сигнатуры и TOML-индексы через парсер и загрузчик.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/symbols, internal/types, internal/diag.

package fuzztests
