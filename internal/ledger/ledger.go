package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"sync"
)

var (
	ErrNotFound    = errors.New("заказчик не найден")
	ErrEmptyName   = errors.New("название заказчика не может быть пустым")
	ErrBadIndex    = errors.New("выезд с таким номером не найден")
	ErrNegativeSum = errors.New("сумма не может быть отрицательной")
)

// Store Хранилище полного среза данных. Частичной записи нет:
// каждая мутация сбрасывает весь срез целиком.
type Store interface {
	LoadAll(ctx context.Context) (Snapshot, error)
	SaveAll(ctx context.Context, snap Snapshot) error
}

// Ledger Реестр заказчиков. Единственный владелец записей Customer/Visit.
// Все операции атомарны под общим мьютексом; после каждой мутации срез
// сбрасывается в Store. Ошибка записи не фатальна — память остаётся
// источником истины для работающего процесса.
type Ledger struct {
	mu        sync.Mutex
	store     Store
	log       *slog.Logger
	customers map[string]*Customer

	onFlushError func()
}

func New(store Store, log *slog.Logger) *Ledger {
	return &Ledger{
		store:     store,
		log:       log,
		customers: map[string]*Customer{},
	}
}

// Load читает срез из хранилища и выполняет чистку: записи без единого
// привязанного представителя и с числовым ID считаются мусором и удаляются.
func (l *Ledger) Load(ctx context.Context) error {
	snap, err := l.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.customers = snap.Customers
	if l.customers == nil {
		l.customers = map[string]*Customer{}
	}

	removed := 0
	for cid, c := range l.customers {
		c.ID = cid
		if len(c.ActorIDs) == 0 && isNumeric(cid) {
			delete(l.customers, cid)
			l.log.Info("удалён некорректный заказчик", "id", cid)
			removed++
		}
	}
	if removed > 0 {
		l.flush(ctx)
	}
	return nil
}

// CreateCustomer создаёт заказчика с автоматическим числовым ID.
func (l *Ledger) CreateCustomer(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cid := l.nextID()
	l.customers[cid] = &Customer{
		ID:       cid,
		Name:     name,
		ActorIDs: []string{},
		Visits:   []Visit{},
	}
	l.flush(ctx)
	return cid, nil
}

// Get возвращает копию записи заказчика.
func (l *Ledger) Get(cid string) (Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c.clone(), nil
}

// FindByActor ищет заказчика, к которому привязан представитель.
// Линейный перебор: заказчиков десятки, инвариант гарантирует не больше одного владельца.
func (l *Ledger) FindByActor(actorID string) (Customer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range l.sorted() {
		if c.HasActor(actorID) {
			return c.clone(), true
		}
	}
	return Customer{}, false
}

// LinkActor привязывает представителя к заказчику. Сначала отвязывает его
// от всех остальных записей — представитель принадлежит максимум одному
// заказчику. Повторная привязка к тому же заказчику идемпотентна.
func (l *Ledger) LinkActor(ctx context.Context, cid, actorID string) (already bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return false, ErrNotFound
	}
	if c.HasActor(actorID) {
		return true, nil
	}

	for _, other := range l.customers {
		other.removeActor(actorID)
	}
	c.ActorIDs = append(c.ActorIDs, actorID)
	l.flush(ctx)
	return false, nil
}

// UnlinkActor отвязывает представителя от заказчика.
func (l *Ledger) UnlinkActor(ctx context.Context, cid, actorID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return ErrNotFound
	}
	if !c.HasActor(actorID) {
		return ErrNotFound
	}
	c.removeActor(actorID)
	l.flush(ctx)
	return nil
}

// AppendVisit добавляет выезд в историю заказчика.
func (l *Ledger) AppendVisit(ctx context.Context, cid string, v Visit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return ErrNotFound
	}
	c.Visits = append(c.Visits, v)
	c.recalcDiscount()
	l.flush(ctx)
	return nil
}

// RemoveVisit удаляет выезд по индексу и возвращает удалённую запись.
func (l *Ledger) RemoveVisit(ctx context.Context, cid string, index int) (Visit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return Visit{}, ErrNotFound
	}
	if index < 0 || index >= len(c.Visits) {
		return Visit{}, ErrBadIndex
	}
	v := c.Visits[index]
	c.Visits = append(c.Visits[:index], c.Visits[index+1:]...)
	c.recalcDiscount()
	l.flush(ctx)
	return v, nil
}

// ClearVisits очищает историю выездов, возвращает число удалённых записей.
func (l *Ledger) ClearVisits(ctx context.Context, cid string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return 0, ErrNotFound
	}
	n := len(c.Visits)
	c.Visits = []Visit{}
	c.recalcDiscount()
	l.flush(ctx)
	return n, nil
}

// AddProjectsSum увеличивает сумму проектов, возвращает новое значение.
func (l *Ledger) AddProjectsSum(ctx context.Context, cid string, delta int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return 0, ErrNotFound
	}
	if c.ProjectsSum+delta < 0 {
		return 0, ErrNegativeSum
	}
	c.ProjectsSum += delta
	c.recalcDiscount()
	l.flush(ctx)
	return c.ProjectsSum, nil
}

// SetProjectsSum устанавливает точную сумму проектов.
func (l *Ledger) SetProjectsSum(ctx context.Context, cid string, amount int64) error {
	if amount < 0 {
		return ErrNegativeSum
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return ErrNotFound
	}
	c.ProjectsSum = amount
	c.recalcDiscount()
	l.flush(ctx)
	return nil
}

// ResetProjectsSum обнуляет сумму проектов.
func (l *Ledger) ResetProjectsSum(ctx context.Context, cid string) error {
	return l.SetProjectsSum(ctx, cid, 0)
}

// DeleteCustomer удаляет заказчика вместе с выездами и привязками.
func (l *Ledger) DeleteCustomer(ctx context.Context, cid string) (Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.customers[cid]
	if !ok {
		return Customer{}, ErrNotFound
	}
	delete(l.customers, cid)
	l.flush(ctx)
	return c.clone(), nil
}

// List возвращает копии всех заказчиков, отсортированные по ID.
func (l *Ledger) List() []Customer {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Customer, 0, len(l.customers))
	for _, c := range l.sorted() {
		out = append(out, c.clone())
	}
	return out
}

// flush сбрасывает срез в хранилище. Вызывается под мьютексом.
// Ошибка записи логируется и не поднимается: процесс продолжает работать
// с авторитетным состоянием в памяти.
func (l *Ledger) flush(ctx context.Context) {
	snap := Snapshot{Customers: l.customers}
	if err := l.store.SaveAll(ctx, snap); err != nil {
		l.log.Warn("не удалось сохранить данные", "err", err)
		if l.onFlushError != nil {
			l.onFlushError()
		}
	}
}

// SetFlushErrorHook задаёт колбэк на ошибку записи (метрики).
func (l *Ledger) SetFlushErrorHook(fn func()) { l.onFlushError = fn }

// nextID выдаёт следующий числовой ID: max(существующих)+1, либо "1".
func (l *Ledger) nextID() string {
	max := 0
	for cid := range l.customers {
		if n, err := strconv.Atoi(cid); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// sorted возвращает записи в порядке возрастания числового ID
// (нечисловые ID — в конце, лексикографически).
func (l *Ledger) sorted() []*Customer {
	out := make([]*Customer, 0, len(l.customers))
	for _, c := range l.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, ei := strconv.Atoi(out[i].ID)
		nj, ej := strconv.Atoi(out[j].ID)
		if ei == nil && ej == nil {
			return ni < nj
		}
		if ei == nil || ej == nil {
			return ei == nil
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Customer) removeActor(actorID string) {
	for i, id := range c.ActorIDs {
		if id == actorID {
			c.ActorIDs = append(c.ActorIDs[:i], c.ActorIDs[i+1:]...)
			return
		}
	}
}

func (c *Customer) clone() Customer {
	out := *c
	out.ActorIDs = append([]string{}, c.ActorIDs...)
	out.Visits = append([]Visit{}, c.Visits...)
	return out
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
