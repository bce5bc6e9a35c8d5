package repository

import (
	"errors"
	"testing"

	"github.com/avrentops/rentalctl/internal/domain"
)

func TestUserEmailLookupAndDelete(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	u := &domain.User{Email: "tech@avrent.example", FullName: "Alex Tech", Role: domain.RoleTechnician, IsActive: true}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("create must assign an id")
	}

	got, err := repo.FindByEmail("tech@avrent.example")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("got %+v", got)
	}

	if err := repo.Delete(u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByEmail("tech@avrent.example"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserListPagedFilters(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	users := []*domain.User{
		{Email: "admin@avrent.example", FullName: "Ada Admin", Role: domain.RoleAdmin, IsActive: true},
		{Email: "tech1@avrent.example", FullName: "Tim Tech", Role: domain.RoleTechnician, IsActive: true},
		{Email: "tech2@avrent.example", FullName: "Tina Tech", Role: domain.RoleTechnician, IsActive: false},
	}
	for _, u := range users {
		if err := repo.Create(u); err != nil {
			t.Fatalf("create %s: %v", u.Email, err)
		}
	}

	page, err := repo.ListPaged(UserListQuery{Role: string(domain.RoleTechnician)})
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("technicians = %d, want 2", page.Total)
	}

	active := true
	page, err = repo.ListPaged(UserListQuery{Role: string(domain.RoleTechnician), IsActive: &active})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if page.Total != 1 || page.Items[0].Email != "tech1@avrent.example" {
		t.Fatalf("page = %+v", page)
	}

	page, err = repo.ListPaged(UserListQuery{Search: "Tina"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || page.Items[0].FullName != "Tina Tech" {
		t.Fatalf("page = %+v", page)
	}
}
