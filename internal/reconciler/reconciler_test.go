package reconciler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/models"
)

// memStore is an in-memory Store. Atomic snapshots the maps and restores them
// when fn fails, so tests exercise the same all-or-nothing behavior the SQL
// store provides. failOn forces the named method to fail, for partial-failure
// tests.
type memStore struct {
	accounts map[uuid.UUID]*models.Account
	txs      map[uuid.UUID]*models.Transaction
	goals    map[uuid.UUID]*models.Goal
	contribs map[uuid.UUID]*models.GoalContribution
	failOn   string
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[uuid.UUID]*models.Account),
		txs:      make(map[uuid.UUID]*models.Transaction),
		goals:    make(map[uuid.UUID]*models.Goal),
		contribs: make(map[uuid.UUID]*models.GoalContribution),
	}
}

func (m *memStore) fail(method string) error {
	if m.failOn == method {
		return fmt.Errorf("%s: %w: injected", method, ErrStoreFailure)
	}
	return nil
}

func (m *memStore) AccountByID(_ context.Context, ownerID, accountID uuid.UUID) (*models.Account, error) {
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != ownerID {
		return nil, fmt.Errorf("account: %w", ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) AdjustAccountBalance(_ context.Context, ownerID, accountID uuid.UUID, delta decimal.Decimal) error {
	if err := m.fail("AdjustAccountBalance"); err != nil {
		return err
	}
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != ownerID {
		return fmt.Errorf("account: %w", ErrNotFound)
	}
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	return nil
}

func (m *memStore) WithdrawFromAccount(_ context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal) error {
	if err := m.fail("WithdrawFromAccount"); err != nil {
		return err
	}
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != ownerID {
		return fmt.Errorf("account: %w", ErrNotFound)
	}
	if a.CurrentBalance.LessThan(amount) {
		return fmt.Errorf("account %s: %w", accountID, ErrInsufficientFunds)
	}
	a.CurrentBalance = a.CurrentBalance.Sub(amount)
	return nil
}

func (m *memStore) TransactionByID(_ context.Context, ownerID, id uuid.UUID) (*models.Transaction, error) {
	t, ok := m.txs[id]
	if !ok || t.UserID != ownerID {
		return nil, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) InsertTransaction(_ context.Context, tx *models.Transaction) error {
	if err := m.fail("InsertTransaction"); err != nil {
		return err
	}
	cp := *tx
	m.txs[tx.ID] = &cp
	return nil
}

func (m *memStore) UpdateTransaction(_ context.Context, tx *models.Transaction) error {
	if err := m.fail("UpdateTransaction"); err != nil {
		return err
	}
	if _, ok := m.txs[tx.ID]; !ok {
		return fmt.Errorf("transaction: %w", ErrNotFound)
	}
	cp := *tx
	m.txs[tx.ID] = &cp
	return nil
}

func (m *memStore) DeleteTransaction(_ context.Context, ownerID, id uuid.UUID) error {
	if err := m.fail("DeleteTransaction"); err != nil {
		return err
	}
	t, ok := m.txs[id]
	if !ok || t.UserID != ownerID {
		return fmt.Errorf("transaction: %w", ErrNotFound)
	}
	delete(m.txs, id)
	return nil
}

func (m *memStore) GoalByID(_ context.Context, ownerID, id uuid.UUID) (*models.Goal, error) {
	g, ok := m.goals[id]
	if !ok || g.UserID != ownerID {
		return nil, fmt.Errorf("goal: %w", ErrNotFound)
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) AdjustGoalAccumulated(_ context.Context, ownerID, goalID uuid.UUID, delta decimal.Decimal) error {
	if err := m.fail("AdjustGoalAccumulated"); err != nil {
		return err
	}
	g, ok := m.goals[goalID]
	if !ok || g.UserID != ownerID {
		return fmt.Errorf("goal: %w", ErrNotFound)
	}
	g.AccumulatedAmount = g.AccumulatedAmount.Add(delta)
	return nil
}

func (m *memStore) UpdateGoalStatus(_ context.Context, ownerID, goalID uuid.UUID, status string) error {
	g, ok := m.goals[goalID]
	if !ok || g.UserID != ownerID {
		return fmt.Errorf("goal: %w", ErrNotFound)
	}
	g.Status = status
	return nil
}

func (m *memStore) InsertContribution(_ context.Context, c *models.GoalContribution) error {
	if err := m.fail("InsertContribution"); err != nil {
		return err
	}
	cp := *c
	m.contribs[c.ID] = &cp
	return nil
}

func (m *memStore) snapshot() (map[uuid.UUID]*models.Account, map[uuid.UUID]*models.Transaction, map[uuid.UUID]*models.Goal, map[uuid.UUID]*models.GoalContribution) {
	accounts := make(map[uuid.UUID]*models.Account, len(m.accounts))
	for k, v := range m.accounts {
		cp := *v
		accounts[k] = &cp
	}
	txs := make(map[uuid.UUID]*models.Transaction, len(m.txs))
	for k, v := range m.txs {
		cp := *v
		txs[k] = &cp
	}
	goals := make(map[uuid.UUID]*models.Goal, len(m.goals))
	for k, v := range m.goals {
		cp := *v
		goals[k] = &cp
	}
	contribs := make(map[uuid.UUID]*models.GoalContribution, len(m.contribs))
	for k, v := range m.contribs {
		cp := *v
		contribs[k] = &cp
	}
	return accounts, txs, goals, contribs
}

func (m *memStore) Atomic(_ context.Context, fn func(Store) error) error {
	accounts, txs, goals, contribs := m.snapshot()
	if err := fn(m); err != nil {
		m.accounts, m.txs, m.goals, m.contribs = accounts, txs, goals, contribs
		return err
	}
	return nil
}

func testReconciler(store Store) *Reconciler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(store, log)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func addAccount(t *testing.T, m *memStore, ownerID uuid.UUID, balance string) *models.Account {
	t.Helper()
	a := &models.Account{
		ID:             uuid.New(),
		UserID:         ownerID,
		Name:           "Conta",
		InitialBalance: dec(t, balance),
		CurrentBalance: dec(t, balance),
	}
	m.accounts[a.ID] = a
	return a
}

func balanceOf(t *testing.T, m *memStore, id uuid.UUID) decimal.Decimal {
	t.Helper()
	a, ok := m.accounts[id]
	if !ok {
		t.Fatalf("account %s missing", id)
	}
	return a.CurrentBalance
}

func assertBalance(t *testing.T, m *memStore, id uuid.UUID, want string) {
	t.Helper()
	got := balanceOf(t, m, id)
	if !got.Equal(dec(t, want)) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

// invariant: current balance equals initial balance plus the signed sum of
// the account's stored transactions.
func assertInvariant(t *testing.T, m *memStore, id uuid.UUID) {
	t.Helper()
	a := m.accounts[id]
	sum := decimal.Zero
	for _, tx := range m.txs {
		if tx.AccountID != id {
			continue
		}
		sum = sum.Add(signedDelta(tx.Type, tx.Amount))
	}
	want := a.InitialBalance.Add(sum)
	if !a.CurrentBalance.Equal(want) {
		t.Fatalf("invariant broken: balance %s, initial %s + deltas %s = %s",
			a.CurrentBalance, a.InitialBalance, sum, want)
	}
}

func newTx(account uuid.UUID, typ models.TransactionType, amount string) *models.Transaction {
	amt, _ := decimal.NewFromString(amount)
	return &models.Transaction{
		AccountID: account,
		Type:      typ,
		Amount:    amt,
		Date:      time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateTransactionAdjustsBalance(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "100.00")
	r := testReconciler(m)
	ctx := context.Background()

	// Scenario A: expense 30.00 then income 20.00
	if err := r.CreateTransaction(ctx, owner, newTx(account.ID, models.TypeExpense, "30.00")); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	assertBalance(t, m, account.ID, "70.00")
	assertInvariant(t, m, account.ID)

	if err := r.CreateTransaction(ctx, owner, newTx(account.ID, models.TypeIncome, "20.00")); err != nil {
		t.Fatalf("create income: %v", err)
	}
	assertBalance(t, m, account.ID, "90.00")
	assertInvariant(t, m, account.ID)
}

func TestCreateTransactionValidation(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "100.00")
	r := testReconciler(m)
	ctx := context.Background()

	tests := []struct {
		name string
		tx   *models.Transaction
		want error
	}{
		{"zero amount", newTx(account.ID, models.TypeExpense, "0"), ErrInvalidInput},
		{"negative amount", newTx(account.ID, models.TypeIncome, "-5.00"), ErrInvalidInput},
		{"bad type", newTx(account.ID, "transfer", "5.00"), ErrInvalidInput},
		{"missing account", newTx(uuid.Nil, models.TypeExpense, "5.00"), ErrInvalidInput},
		{"unknown account", newTx(uuid.New(), models.TypeExpense, "5.00"), ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.CreateTransaction(ctx, owner, tt.tx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			assertBalance(t, m, account.ID, "100.00")
			if len(m.txs) != 0 {
				t.Fatalf("rejected create left %d transactions behind", len(m.txs))
			}
		})
	}
}

func TestCreateTransactionOtherOwnerAccount(t *testing.T) {
	m := newMemStore()
	owner, stranger := uuid.New(), uuid.New()
	account := addAccount(t, m, owner, "100.00")
	r := testReconciler(m)

	err := r.CreateTransaction(context.Background(), stranger, newTx(account.ID, models.TypeExpense, "10.00"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	assertBalance(t, m, account.ID, "100.00")
}

func TestUpdateTransactionAmountChange(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "100.00")
	r := testReconciler(m)
	ctx := context.Background()

	expense := newTx(account.ID, models.TypeExpense, "30.00")
	if err := r.CreateTransaction(ctx, owner, expense); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if err := r.CreateTransaction(ctx, owner, newTx(account.ID, models.TypeIncome, "20.00")); err != nil {
		t.Fatalf("create income: %v", err)
	}
	assertBalance(t, m, account.ID, "90.00")

	// Scenario B: raise the expense from 30.00 to 50.00
	updated := newTx(account.ID, models.TypeExpense, "50.00")
	updated.ID = expense.ID
	if _, err := r.UpdateTransaction(ctx, owner, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	assertBalance(t, m, account.ID, "70.00")
	assertInvariant(t, m, account.ID)

	// Scenario C: delete it; only the income remains
	if err := r.DeleteTransaction(ctx, owner, expense.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertBalance(t, m, account.ID, "120.00")
	assertInvariant(t, m, account.ID)
}

func TestUpdateTransactionNoop(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "100.00")
	r := testReconciler(m)
	ctx := context.Background()

	tx := newTx(account.ID, models.TypeExpense, "25.00")
	if err := r.CreateTransaction(ctx, owner, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	assertBalance(t, m, account.ID, "75.00")

	// Same account, type and amount: reversal plus reapplication nets to zero.
	updated := newTx(account.ID, models.TypeExpense, "25.00")
	updated.ID = tx.ID
	updated.Description = "descrição nova"
	if _, err := r.UpdateTransaction(ctx, owner, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	assertBalance(t, m, account.ID, "75.00")
	if m.txs[tx.ID].Description != "descrição nova" {
		t.Fatal("description was not persisted")
	}
	assertInvariant(t, m, account.ID)
}

func TestUpdateTransactionMoveAccounts(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	a := addAccount(t, m, owner, "100.00")
	b := addAccount(t, m, owner, "40.00")
	r := testReconciler(m)
	ctx := context.Background()

	tx := newTx(a.ID, models.TypeExpense, "30.00")
	if err := r.CreateTransaction(ctx, owner, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	assertBalance(t, m, a.ID, "70.00")

	combined := balanceOf(t, m, a.ID).Add(balanceOf(t, m, b.ID))

	updated := newTx(b.ID, models.TypeExpense, "30.00")
	updated.ID = tx.ID
	if _, err := r.UpdateTransaction(ctx, owner, updated); err != nil {
		t.Fatalf("move: %v", err)
	}
	assertBalance(t, m, a.ID, "100.00")
	assertBalance(t, m, b.ID, "10.00")
	assertInvariant(t, m, a.ID)
	assertInvariant(t, m, b.ID)

	after := balanceOf(t, m, a.ID).Add(balanceOf(t, m, b.ID))
	if !after.Equal(combined) {
		t.Fatalf("combined balance changed: %s -> %s", combined, after)
	}
}

func TestUpdateTransactionUnknownDestination(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "100.00")
	r := testReconciler(m)
	ctx := context.Background()

	tx := newTx(account.ID, models.TypeExpense, "30.00")
	if err := r.CreateTransaction(ctx, owner, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The destination is validated before the old account is reversed, so a
	// bad account id leaves everything untouched.
	updated := newTx(uuid.New(), models.TypeExpense, "30.00")
	updated.ID = tx.ID
	if _, err := r.UpdateTransaction(ctx, owner, updated); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	assertBalance(t, m, account.ID, "70.00")
	if got := m.txs[tx.ID].AccountID; got != account.ID {
		t.Fatalf("transaction moved to %s", got)
	}
}

func TestDeleteInverseOfCreate(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "321.45")
	r := testReconciler(m)
	ctx := context.Background()

	tx := newTx(account.ID, models.TypeIncome, "78.55")
	if err := r.CreateTransaction(ctx, owner, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := r.DeleteTransaction(ctx, owner, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertBalance(t, m, account.ID, "321.45")
	if len(m.txs) != 0 {
		t.Fatal("transaction record still present after delete")
	}
}

func TestUpdateTransactionPartialFailureRollsBack(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "100.00")
	r := testReconciler(m)
	ctx := context.Background()

	tx := newTx(account.ID, models.TypeExpense, "30.00")
	if err := r.CreateTransaction(ctx, owner, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	m.failOn = "UpdateTransaction"
	updated := newTx(account.ID, models.TypeExpense, "50.00")
	updated.ID = tx.ID
	_, err := r.UpdateTransaction(ctx, owner, updated)

	var partial *PartialReconciliationError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want PartialReconciliationError", err)
	}
	if !errors.Is(err, ErrStoreFailure) {
		t.Fatalf("cause = %v, want ErrStoreFailure", err)
	}
	// Atomic rolled the reversal back.
	assertBalance(t, m, account.ID, "70.00")
	if !m.txs[tx.ID].Amount.Equal(dec(t, "30.00")) {
		t.Fatalf("amount = %s, want 30.00", m.txs[tx.ID].Amount)
	}
	assertInvariant(t, m, account.ID)
}

func TestCreateContribution(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "200.00")
	goal := &models.Goal{
		ID:                uuid.New(),
		UserID:            owner,
		Name:              "Férias",
		TargetAmount:      dec(t, "500.00"),
		AccumulatedAmount: decimal.Zero,
		Status:            models.GoalStatusActive,
	}
	m.goals[goal.ID] = goal
	r := testReconciler(m)
	ctx := context.Background()

	// Scenario D part 1: contribute 150.00
	c := &models.GoalContribution{GoalID: goal.ID, AccountID: account.ID, Amount: dec(t, "150.00")}
	if err := r.CreateContribution(ctx, owner, c); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	assertBalance(t, m, account.ID, "50.00")
	if !m.goals[goal.ID].AccumulatedAmount.Equal(dec(t, "150.00")) {
		t.Fatalf("accumulated = %s, want 150.00", m.goals[goal.ID].AccumulatedAmount)
	}
	if len(m.contribs) != 1 {
		t.Fatalf("contributions = %d, want 1", len(m.contribs))
	}

	// Scenario D part 2: 100.00 exceeds the remaining 50.00
	c2 := &models.GoalContribution{GoalID: goal.ID, AccountID: account.ID, Amount: dec(t, "100.00")}
	if err := r.CreateContribution(ctx, owner, c2); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	assertBalance(t, m, account.ID, "50.00")
	if !m.goals[goal.ID].AccumulatedAmount.Equal(dec(t, "150.00")) {
		t.Fatalf("accumulated changed after rejected contribution: %s", m.goals[goal.ID].AccumulatedAmount)
	}
	if len(m.contribs) != 1 {
		t.Fatalf("rejected contribution was persisted")
	}
}

func TestContributionReachesGoal(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "1000.00")
	goal := &models.Goal{
		ID:                uuid.New(),
		UserID:            owner,
		Name:              "Entrada da casa",
		TargetAmount:      dec(t, "300.00"),
		AccumulatedAmount: dec(t, "250.00"),
		Status:            models.GoalStatusActive,
	}
	m.goals[goal.ID] = goal
	r := testReconciler(m)

	c := &models.GoalContribution{GoalID: goal.ID, AccountID: account.ID, Amount: dec(t, "50.00")}
	if err := r.CreateContribution(context.Background(), owner, c); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if got := m.goals[goal.ID].Status; got != models.GoalStatusReached {
		t.Fatalf("status = %q, want %q", got, models.GoalStatusReached)
	}
}

func TestContributionPartialFailureRollsBack(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "200.00")
	goal := &models.Goal{
		ID:           uuid.New(),
		UserID:       owner,
		TargetAmount: dec(t, "500.00"),
		Status:       models.GoalStatusActive,
	}
	m.goals[goal.ID] = goal
	r := testReconciler(m)

	m.failOn = "InsertContribution"
	c := &models.GoalContribution{GoalID: goal.ID, AccountID: account.ID, Amount: dec(t, "150.00")}
	err := r.CreateContribution(context.Background(), owner, c)

	var partial *PartialReconciliationError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want PartialReconciliationError", err)
	}
	assertBalance(t, m, account.ID, "200.00")
	if !m.goals[goal.ID].AccumulatedAmount.Equal(decimal.Zero) {
		t.Fatalf("accumulated = %s after rollback", m.goals[goal.ID].AccumulatedAmount)
	}
	if len(m.contribs) != 0 {
		t.Fatal("contribution record survived rollback")
	}
}

func TestInvariantOverMixedSequence(t *testing.T) {
	m := newMemStore()
	owner := uuid.New()
	account := addAccount(t, m, owner, "500.00")
	r := testReconciler(m)
	ctx := context.Background()

	var ids []uuid.UUID
	steps := []struct {
		typ    models.TransactionType
		amount string
	}{
		{models.TypeExpense, "12.34"},
		{models.TypeIncome, "200.00"},
		{models.TypeExpense, "99.99"},
		{models.TypeIncome, "0.01"},
		{models.TypeExpense, "45.50"},
	}
	for _, st := range steps {
		tx := newTx(account.ID, st.typ, st.amount)
		if err := r.CreateTransaction(ctx, owner, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, tx.ID)
		assertInvariant(t, m, account.ID)
	}

	// Flip one expense to income, then delete another.
	updated := newTx(account.ID, models.TypeIncome, "99.99")
	updated.ID = ids[2]
	if _, err := r.UpdateTransaction(ctx, owner, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	assertInvariant(t, m, account.ID)

	if err := r.DeleteTransaction(ctx, owner, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertInvariant(t, m, account.ID)
}

func TestSignedDelta(t *testing.T) {
	amount := decimal.RequireFromString("10.50")
	if got := signedDelta(models.TypeIncome, amount); !got.Equal(amount) {
		t.Fatalf("income delta = %s", got)
	}
	if got := signedDelta(models.TypeExpense, amount); !got.Equal(amount.Neg()) {
		t.Fatalf("expense delta = %s", got)
	}
}
