// Package student содержит реестр студентов (roster) системы учёта посещаемости.
//
// Пакет определяет:
//
//   - Student: запись студента (roll number, имя, отметка регистрации)
//   - Roster: таблица студентов в памяти с сохранением порядка регистрации
//
// # Архитектурные принципы
//
//  1. Из внешних зависимостей только go-ordered-map: порядок ключей реестра
//  2. Таблица не знает о хранилище: загрузка и сохранение выполняются
//     через shared.DocumentStore на уровне application
//  3. Ключ (roll number) неизменяем; запись создаётся и удаляется, но не изменяется
//
// # Пример использования
//
//	roster := NewRoster()
//	st, err := NewStudent(NewStudentParams{
//	    RollNumber: "001",
//	    Name:       "Alice",
//	    Date:       "2024-01-10",
//	    Time:       "09:00",
//	})
//	if err != nil {
//	    return err
//	}
//	if err := roster.Add(st); err != nil {
//	    return err // shared.ErrStudentAlreadyExists
//	}
//
// # Связь с журналом посещаемости
//
// Журнал (пакет attendance) ссылается на roll number "слабо": только связь
// и поиск, без владения. Целостность ссылок на уровне хранилища не проверяется.
package student
