package stores

import (
	"context"
	"net/url"

	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"
)

// BudgetStore caches the production-finance side of the dashboard: projects,
// their budgets, and the requisitions and reconciliations raised against them.
// All four collections live under the platform's /project/budget namespace and
// answer with the responseCode envelope.
type BudgetStore struct {
	store

	projects        []Row
	budgets         []Row
	requisitions    []Row
	reconciliations []Row
}

type budgetState struct {
	Projects        []Row `json:"projects"`
	Budgets         []Row `json:"budgets"`
	Requisitions    []Row `json:"requisitions"`
	Reconciliations []Row `json:"reconciliations"`
}

func newBudgetStore(client *upstream.Client, backend storage.Backend, sessionKey string, token func() string) *BudgetStore {
	return &BudgetStore{store: newStore("budget-store", "budget-store", client, backend, sessionKey, token)}
}

func (b *BudgetStore) Projects() []Row { b.mu.Lock(); defer b.mu.Unlock(); return copyRows(b.projects) }
func (b *BudgetStore) Budgets() []Row  { b.mu.Lock(); defer b.mu.Unlock(); return copyRows(b.budgets) }
func (b *BudgetStore) Requisitions() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyRows(b.requisitions)
}
func (b *BudgetStore) Reconciliations() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyRows(b.reconciliations)
}

// Hydrate restores all four collections from the persistence backend.
func (b *BudgetStore) Hydrate(ctx context.Context) {
	var state budgetState
	if !b.restore(ctx, &state) {
		return
	}
	b.mu.Lock()
	b.projects = state.Projects
	b.budgets = state.Budgets
	b.requisitions = state.Requisitions
	b.reconciliations = state.Reconciliations
	b.mu.Unlock()
}

// Reset drops all cached collections and the persisted copy.
func (b *BudgetStore) Reset(ctx context.Context) {
	b.mu.Lock()
	b.projects, b.budgets, b.requisitions, b.reconciliations = nil, nil, nil, nil
	b.mu.Unlock()
	b.clearPersisted(ctx)
}

func (b *BudgetStore) persistState(ctx context.Context) {
	b.mu.Lock()
	state := budgetState{
		Projects:        b.projects,
		Budgets:         b.budgets,
		Requisitions:    b.requisitions,
		Reconciliations: b.reconciliations,
	}
	b.mu.Unlock()
	b.persist(ctx, state)
}

// mutate runs one platform call and applies apply to the store under lock
// when the call succeeds.
func (b *BudgetStore) mutate(ctx context.Context, action string, req upstream.Request, apply func(data upstream.Result)) Result {
	req.Domain = "budget"
	req.Convention = upstream.ConventionResponseCode
	res := b.do(ctx, action, req)
	if res.Error != "" {
		return Result{Error: res.Error}
	}
	if !res.Success {
		return failure(res.Message)
	}
	if apply != nil {
		apply(res)
		b.persistState(ctx)
	}
	return Result{Success: true, Data: res.Data, Message: res.Message}
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

func (b *BudgetStore) ListProjects(ctx context.Context, query url.Values) Result {
	return b.mutate(ctx, "list_projects",
		upstream.Request{Method: "GET", Path: "/project/budget/project/list", Query: query},
		func(res upstream.Result) {
			rows := decodeRows(res.Data)
			b.mu.Lock()
			b.projects = rows
			b.mu.Unlock()
		})
}

func (b *BudgetStore) CreateProject(ctx context.Context, body any) Result {
	return b.mutate(ctx, "create_project",
		upstream.Request{Method: "POST", Path: "/project/budget/project/create", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.projects = append(copyRows(b.projects), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) UpdateProject(ctx context.Context, body any) Result {
	return b.mutate(ctx, "update_project",
		upstream.Request{Method: "PUT", Path: "/project/budget/project/update", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.projects = replaceByID(copyRows(b.projects), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) DeleteProject(ctx context.Context, id string) Result {
	return b.mutate(ctx, "delete_project",
		upstream.Request{Method: "DELETE", Path: "/project/budget/project/delete", Query: url.Values{"id": []string{id}}},
		func(res upstream.Result) {
			b.mu.Lock()
			b.projects = removeByID(copyRows(b.projects), id)
			b.mu.Unlock()
		})
}

// ---------------------------------------------------------------------------
// Budgets
// ---------------------------------------------------------------------------

func (b *BudgetStore) ListBudgets(ctx context.Context, query url.Values) Result {
	return b.mutate(ctx, "list_budgets",
		upstream.Request{Method: "GET", Path: "/project/budget/list", Query: query},
		func(res upstream.Result) {
			rows := decodeRows(res.Data)
			b.mu.Lock()
			b.budgets = rows
			b.mu.Unlock()
		})
}

func (b *BudgetStore) CreateBudget(ctx context.Context, body any) Result {
	return b.mutate(ctx, "create_budget",
		upstream.Request{Method: "POST", Path: "/project/budget/create", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.budgets = append(copyRows(b.budgets), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) UpdateBudget(ctx context.Context, body any) Result {
	return b.mutate(ctx, "update_budget",
		upstream.Request{Method: "PUT", Path: "/project/budget/update", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.budgets = replaceByID(copyRows(b.budgets), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) DeleteBudget(ctx context.Context, id string) Result {
	return b.mutate(ctx, "delete_budget",
		upstream.Request{Method: "DELETE", Path: "/project/budget/delete", Query: url.Values{"id": []string{id}}},
		func(res upstream.Result) {
			b.mu.Lock()
			b.budgets = removeByID(copyRows(b.budgets), id)
			b.mu.Unlock()
		})
}

// ---------------------------------------------------------------------------
// Requisitions
// ---------------------------------------------------------------------------

func (b *BudgetStore) ListRequisitions(ctx context.Context, query url.Values) Result {
	return b.mutate(ctx, "list_requisitions",
		upstream.Request{Method: "GET", Path: "/project/budget/requisition/list", Query: query},
		func(res upstream.Result) {
			rows := decodeRows(res.Data)
			b.mu.Lock()
			b.requisitions = rows
			b.mu.Unlock()
		})
}

func (b *BudgetStore) CreateRequisition(ctx context.Context, body any) Result {
	return b.mutate(ctx, "create_requisition",
		upstream.Request{Method: "POST", Path: "/project/budget/requisition/create", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.requisitions = append(copyRows(b.requisitions), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) UpdateRequisition(ctx context.Context, body any) Result {
	return b.mutate(ctx, "update_requisition",
		upstream.Request{Method: "PUT", Path: "/project/budget/requisition/update", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.requisitions = replaceByID(copyRows(b.requisitions), row)
				b.mu.Unlock()
			}
		})
}

// ApproveRequisition flips a requisition's status on the platform and mirrors
// the returned row locally.
func (b *BudgetStore) ApproveRequisition(ctx context.Context, id string) Result {
	return b.mutate(ctx, "approve_requisition",
		upstream.Request{Method: "POST", Path: "/project/budget/requisition/approve", Body: map[string]string{"id": id}},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.requisitions = replaceByID(copyRows(b.requisitions), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) DeleteRequisition(ctx context.Context, id string) Result {
	return b.mutate(ctx, "delete_requisition",
		upstream.Request{Method: "DELETE", Path: "/project/budget/requisition/delete", Query: url.Values{"id": []string{id}}},
		func(res upstream.Result) {
			b.mu.Lock()
			b.requisitions = removeByID(copyRows(b.requisitions), id)
			b.mu.Unlock()
		})
}

// ---------------------------------------------------------------------------
// Reconciliations
// ---------------------------------------------------------------------------

func (b *BudgetStore) ListReconciliations(ctx context.Context, query url.Values) Result {
	return b.mutate(ctx, "list_reconciliations",
		upstream.Request{Method: "GET", Path: "/project/budget/reconciliation/list", Query: query},
		func(res upstream.Result) {
			rows := decodeRows(res.Data)
			b.mu.Lock()
			b.reconciliations = rows
			b.mu.Unlock()
		})
}

func (b *BudgetStore) CreateReconciliation(ctx context.Context, body any) Result {
	return b.mutate(ctx, "create_reconciliation",
		upstream.Request{Method: "POST", Path: "/project/budget/reconciliation/create", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.reconciliations = append(copyRows(b.reconciliations), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) UpdateReconciliation(ctx context.Context, body any) Result {
	return b.mutate(ctx, "update_reconciliation",
		upstream.Request{Method: "PUT", Path: "/project/budget/reconciliation/update", Body: body},
		func(res upstream.Result) {
			if row, ok := decodeRow(res.Data); ok {
				b.mu.Lock()
				b.reconciliations = replaceByID(copyRows(b.reconciliations), row)
				b.mu.Unlock()
			}
		})
}

func (b *BudgetStore) DeleteReconciliation(ctx context.Context, id string) Result {
	return b.mutate(ctx, "delete_reconciliation",
		upstream.Request{Method: "DELETE", Path: "/project/budget/reconciliation/delete", Query: url.Values{"id": []string{id}}},
		func(res upstream.Result) {
			b.mu.Lock()
			b.reconciliations = removeByID(copyRows(b.reconciliations), id)
			b.mu.Unlock()
		})
}
