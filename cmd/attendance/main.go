// Package main - точка входа CLI учёта посещаемости.
//
// Утилита ведёт реестр студентов и журнал посещаемости. Обе таблицы
// загружаются целиком при запуске и сохраняются целиком после каждого
// изменения (JSON-файлы, PostgreSQL или Redis - см. STORAGE_BACKEND).
//
// Архитектура следует принципам Clean Architecture:
// - Domain: реестр, журнал и их ошибки, без внешних зависимостей
// - Application: Tracker - единственный корневой объект с операциями
// - Infrastructure: хранилища документов и экспорт в SQLite
// - Interface: эта CLI и локальный HTTP-сервер (attendance serve)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Корневой контекст отменяется по SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
