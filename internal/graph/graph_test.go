package graph

import (
	"errors"
	"reflect"
	"testing"
)

func claims(specs ...[2]interface{}) []ClaimNode {
	var out []ClaimNode
	for _, s := range specs {
		out = append(out, ClaimNode{
			ID:           s[0].(string),
			Statement:    "statement " + s[0].(string),
			Dependencies: s[1].([]string),
		})
	}
	return out
}

func TestBuild_Valid(t *testing.T) {
	g, err := Build(claims(
		[2]interface{}{"c1", []string{}},
		[2]interface{}{"c2", []string{}},
		[2]interface{}{"c3", []string{"c1", "c2"}},
		[2]interface{}{"c4", []string{"c3"}},
	))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.Len() != 4 {
		t.Errorf("expected 4 claims, got %d", g.Len())
	}

	if got := g.Foundational(); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Errorf("foundational = %v", got)
	}
	if got := g.Derived(); !reflect.DeepEqual(got, []string{"c3", "c4"}) {
		t.Errorf("derived = %v", got)
	}
}

func TestBuild_Cycle(t *testing.T) {
	_, err := Build(claims(
		[2]interface{}{"c1", []string{"c3"}},
		[2]interface{}{"c2", []string{"c1"}},
		[2]interface{}{"c3", []string{"c2"}},
	))
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
	if len(cycleErr.Path) < 2 {
		t.Errorf("cycle path too short: %v", cycleErr.Path)
	}
	if cycleErr.Path[0] != cycleErr.Path[len(cycleErr.Path)-1] {
		t.Errorf("cycle path should close on itself: %v", cycleErr.Path)
	}
}

func TestBuild_SelfDependency(t *testing.T) {
	_, err := Build(claims([2]interface{}{"c1", []string{"c1"}}))
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError for self-dependency, got %v", err)
	}
}

func TestBuild_UnknownDependency(t *testing.T) {
	_, err := Build(claims(
		[2]interface{}{"c1", []string{"ghost"}},
	))
	var unknownErr *UnknownDependencyError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownDependencyError, got %v", err)
	}
	if unknownErr.DependencyID != "ghost" {
		t.Errorf("unexpected dependency id: %s", unknownErr.DependencyID)
	}
}

func TestBuild_DuplicateID(t *testing.T) {
	_, err := Build(claims(
		[2]interface{}{"c1", []string{}},
		[2]interface{}{"c1", []string{}},
	))
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestTransitiveDependencies(t *testing.T) {
	g, err := Build(claims(
		[2]interface{}{"c1", []string{}},
		[2]interface{}{"c2", []string{"c1"}},
		[2]interface{}{"c3", []string{"c2"}},
		[2]interface{}{"c4", []string{"c3", "c1"}},
	))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	deps, err := g.TransitiveDependencies("c4")
	if err != nil {
		t.Fatalf("TransitiveDependencies failed: %v", err)
	}
	if !reflect.DeepEqual(deps, []string{"c3", "c1", "c2"}) {
		t.Errorf("unexpected transitive deps: %v", deps)
	}

	// Acyclicity property: no claim appears in its own transitive set
	for _, id := range g.IDs() {
		set, err := g.TransitiveDependencies(id)
		if err != nil {
			t.Fatalf("TransitiveDependencies(%s) failed: %v", id, err)
		}
		for _, dep := range set {
			if dep == id {
				t.Errorf("claim %s appears in its own transitive dependencies", id)
			}
		}
	}

	if _, err := g.TransitiveDependencies("nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestEvaluationOrder(t *testing.T) {
	g, err := Build(claims(
		[2]interface{}{"c3", []string{"c1"}},
		[2]interface{}{"c1", []string{}},
		[2]interface{}{"c2", []string{"c3", "c1"}},
	))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	order := g.EvaluationOrder()
	if len(order) != 3 {
		t.Fatalf("expected 3 ids, got %v", order)
	}

	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	for _, id := range g.IDs() {
		for _, dep := range g.Dependencies(id) {
			if pos[dep] > pos[id] {
				t.Errorf("dependency %s ordered after dependent %s: %v", dep, id, order)
			}
		}
	}

	// Determinism: repeated calls yield the same order
	if again := g.EvaluationOrder(); !reflect.DeepEqual(order, again) {
		t.Errorf("evaluation order not deterministic: %v vs %v", order, again)
	}
}

func TestDependents(t *testing.T) {
	g, err := Build(claims(
		[2]interface{}{"c1", []string{}},
		[2]interface{}{"c2", []string{"c1"}},
		[2]interface{}{"c3", []string{"c1"}},
	))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := g.Dependents("c1"); !reflect.DeepEqual(got, []string{"c2", "c3"}) {
		t.Errorf("dependents = %v", got)
	}
	if got := g.Dependents("c2"); got != nil {
		t.Errorf("expected no dependents, got %v", got)
	}
}
