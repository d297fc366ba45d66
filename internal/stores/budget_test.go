package stores

import (
	"context"
	"net/http"
	"testing"
)

// budgetHandler serves the four /project/budget sub-collections with
// deterministic fixtures.
func budgetHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/project/budget/project/list":
		_, _ = w.Write([]byte(`{"responseCode":"00","data":[{"id":"p1","name":"Night Shoot"}]}`))
	case "/project/budget/list":
		_, _ = w.Write([]byte(`{"responseCode":"00","data":[{"id":"b1","projectId":"p1","amount":50000}]}`))
	case "/project/budget/requisition/list":
		_, _ = w.Write([]byte(`{"responseCode":"00","data":[{"id":"r1","status":"pending"}]}`))
	case "/project/budget/requisition/approve":
		_, _ = w.Write([]byte(`{"responseCode":"00","data":{"id":"r1","status":"approved"}}`))
	case "/project/budget/reconciliation/create":
		_, _ = w.Write([]byte(`{"responseCode":"00","data":{"id":"rec1","total":120}}`))
	default:
		_, _ = w.Write([]byte(`{"responseCode":"00"}`))
	}
}

func TestBudgetStore_CollectionsAreIndependent(t *testing.T) {
	reg, _ := newTestRegistry(t, budgetHandler)
	ctx := context.Background()

	reg.Budget.ListProjects(ctx, nil)
	reg.Budget.ListBudgets(ctx, nil)
	reg.Budget.ListRequisitions(ctx, nil)

	if len(reg.Budget.Projects()) != 1 || len(reg.Budget.Budgets()) != 1 || len(reg.Budget.Requisitions()) != 1 {
		t.Errorf("collections = %d/%d/%d, want 1/1/1",
			len(reg.Budget.Projects()), len(reg.Budget.Budgets()), len(reg.Budget.Requisitions()))
	}
	if len(reg.Budget.Reconciliations()) != 0 {
		t.Error("reconciliations populated without a list call")
	}
}

func TestBudgetStore_ApproveReplacesRequisitionRow(t *testing.T) {
	reg, _ := newTestRegistry(t, budgetHandler)
	ctx := context.Background()

	reg.Budget.ListRequisitions(ctx, nil)
	if res := reg.Budget.ApproveRequisition(ctx, "r1"); !res.Success {
		t.Fatalf("ApproveRequisition failed: %+v", res)
	}

	reqs := reg.Budget.Requisitions()
	if len(reqs) != 1 || reqs[0]["status"] != "approved" {
		t.Errorf("requisitions after approve = %v", reqs)
	}
}

func TestBudgetStore_CreateReconciliationAppends(t *testing.T) {
	reg, backend := newTestRegistry(t, budgetHandler)
	ctx := context.Background()

	if res := reg.Budget.CreateReconciliation(ctx, map[string]any{"total": 120}); !res.Success {
		t.Fatalf("CreateReconciliation failed: %+v", res)
	}
	if len(reg.Budget.Reconciliations()) != 1 {
		t.Fatal("reconciliation not appended")
	}

	// The whole four-collection state persists under one key.
	if _, err := backend.Load(ctx, "sess1/budget-store"); err != nil {
		t.Errorf("budget state not persisted: %v", err)
	}

	// A fresh registry hydrates it back.
	reg2 := NewRegistry(reg.Auth.client, backend, testCipher(t), "sess1")
	reg2.Hydrate(ctx)
	if len(reg2.Budget.Reconciliations()) != 1 {
		t.Error("hydrated budget state lost reconciliations")
	}
}
