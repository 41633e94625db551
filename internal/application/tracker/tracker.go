// Package tracker - прикладной слой трекера посещаемости.
//
// Tracker владеет реестром и журналом: загружает оба документа один раз и
// сохраняет затронутую таблицу после каждой мутации. Shells (CLI, HTTP) call
// into it and never touch the documents directly.
package tracker

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/internal/domain/student"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

// Default document names.
const (
	DefaultRosterName = "students.json"
	DefaultLedgerName = "attendance.json"
)

// Options - настройки Tracker. Пустые имена документов заменяются значениями
// по умолчанию.
type Options struct {
	// RosterName is the document holding the roster.
	RosterName string

	// LedgerName is the document holding the ledger.
	LedgerName string

	// StrictMark - отклонять отметки для номеров, которых нет в реестре.
	StrictMark bool

	// Logger receives debug records of successful mutations.
	Logger *logger.Logger
}

// Tracker - корневой объект приложения. Не потокобезопасен: HTTP shell
// сериализует вызовы сам.
type Tracker struct {
	store    shared.DocumentStore
	roster   *student.Roster
	ledger   *attendance.Ledger
	opts     Options
	log      *logger.Logger
	validate *validator.Validate
}

// New создаёт Tracker с пустыми таблицами. Перед работой вызовите Load.
func New(store shared.DocumentStore, opts Options) *Tracker {
	if opts.RosterName == "" {
		opts.RosterName = DefaultRosterName
	}
	if opts.LedgerName == "" {
		opts.LedgerName = DefaultLedgerName
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Tracker{
		store:    store,
		roster:   student.NewRoster(),
		ledger:   attendance.NewLedger(),
		opts:     opts,
		log:      log.With(logger.Component("tracker")),
		validate: newValidator(),
	}
}

// Open creates a Tracker and loads both tables.
func Open(ctx context.Context, store shared.DocumentStore, opts Options) (*Tracker, error) {
	t := New(store, opts)
	if err := t.Load(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Load заменяет обе таблицы в памяти сохранёнными документами.
// Отсутствующий документ даёт пустую таблицу. Если хоть одна загрузка
// упала, ничего не заменяется.
func (t *Tracker) Load(ctx context.Context) error {
	roster := student.NewRoster()
	if err := t.store.Load(ctx, t.opts.RosterName, roster); err != nil {
		return err
	}

	ledger := attendance.NewLedger()
	if err := t.store.Load(ctx, t.opts.LedgerName, ledger); err != nil {
		return err
	}

	t.roster = roster
	t.ledger = ledger

	t.log.Debug("tables loaded",
		logger.Count("students", roster.Len()),
		logger.Count("ledger_rows", len(ledger.Rolls())),
	)
	return nil
}

// StrictMark сообщает, включён ли строгий режим отметок. Shown by /health.
func (t *Tracker) StrictMark() bool {
	return t.opts.StrictMark
}

func (t *Tracker) saveRoster(ctx context.Context) error {
	if err := t.store.Save(ctx, t.opts.RosterName, t.roster); err != nil {
		return err
	}
	t.log.Debug("document saved", logger.Document(t.opts.RosterName))
	return nil
}

func (t *Tracker) saveLedger(ctx context.Context) error {
	if err := t.store.Save(ctx, t.opts.LedgerName, t.ledger); err != nil {
		return err
	}
	t.log.Debug("document saved", logger.Document(t.opts.LedgerName))
	return nil
}
