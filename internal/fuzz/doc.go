// Package fuzztests houses Go fuzz harnesses for the include pipeline
// (source -> lexer -> includes -> resolve -> plan). They guard against
// panics on arbitrary input and check the structural invariants of tokens
// and plans.
//
// Назначение: прогонять произвольные байты через лексер и FixIncludes,
// проверять инварианты testkit и идемпотентность исправлений.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/driver,
// internal/fix, internal/testkit.
package fuzztests
