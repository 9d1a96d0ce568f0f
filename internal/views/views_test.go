package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/api/apitest"
	"github.com/ziadkadry99/stock-console/internal/dom"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewModules(inventory(), 5).Registry()

	want := []string{
		KeyCategories, KeyCategoryProducts, KeyDashboard, KeyOrders,
		KeyProductDetail, KeyProducts, KeySupplierDetail, KeySuppliers, KeyUsers,
	}
	got := reg.Keys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	if v, ok := reg.Lookup(KeyProductDetail); !ok || !v.NeedsID {
		t.Errorf("product-detail should be registered with an id parameter")
	}
	if _, ok := reg.Lookup("reports"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestEveryViewProducesMarkup(t *testing.T) {
	reg := NewModules(inventory(), 5).Registry()
	for _, key := range reg.Keys() {
		t.Run(key, func(t *testing.T) {
			v, _ := reg.Lookup(key)
			out, err := v.Produce(adminCtx(), 1)
			if err != nil {
				t.Fatalf("Produce: %v", err)
			}
			if strings.TrimSpace(string(out)) == "" {
				t.Error("expected non-empty markup")
			}
		})
	}
}

func TestEmptyCollectionsRenderEmptyState(t *testing.T) {
	reg := NewModules(&apitest.Fake{}, 5).Registry()
	for _, key := range []string{KeyProducts, KeyCategories, KeySuppliers, KeyOrders, KeyUsers, KeyDashboard} {
		v, _ := reg.Lookup(key)
		out, err := v.Produce(adminCtx(), 0)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if !strings.Contains(string(out), "empty-state") {
			t.Errorf("%s: expected empty-state fragment, got %s", key, out)
		}
	}
}

func TestProducerPropagatesFetchError(t *testing.T) {
	fake := inventory()
	fake.Err = map[string]error{"products": errors.New("backend down")}
	p := NewModules(fake, 5).Products

	if _, err := p.List(adminCtx(), 0); err == nil || !strings.Contains(err.Error(), "backend down") {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestProductDetailNotFound(t *testing.T) {
	p := NewModules(inventory(), 5).Products
	out, err := p.Detail(adminCtx(), 42)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if !strings.Contains(string(out), "Produit non trouvé") {
		t.Errorf("expected not-found fragment, got %s", out)
	}
}

func TestProductDetailSanitisesDescription(t *testing.T) {
	p := NewModules(inventory(), 5).Products
	out, err := p.Detail(adminCtx(), 1)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<strong>IPS</strong>") {
		t.Errorf("expected markdown to be rendered, got %s", s)
	}
	if strings.Contains(s, "<script>") {
		t.Error("script tag must be stripped from descriptions")
	}
	if !strings.Contains(s, "Affichage") || !strings.Contains(s, "Dupont SA") {
		t.Error("expected category and supplier names")
	}
}

func TestProductListAddButtonIsAdminOnly(t *testing.T) {
	p := NewModules(inventory(), 5).Products

	admin, _ := p.List(adminCtx(), 0)
	if countControls(t, string(admin), "product-add") != 1 {
		t.Error("admin should see the add button")
	}
	employee, _ := p.List(employeeCtx(), 0)
	if countControls(t, string(employee), "product-add") != 0 {
		t.Error("employee should not see the add button")
	}
	if countControls(t, string(employee), "product-card") != 3 {
		t.Error("expected three product cards")
	}
}

func TestProductSearchIsAccentInsensitive(t *testing.T) {
	p := NewModules(inventory(), 5).Products
	out, _ := p.List(adminCtx(), 0)
	m := newTestMount(t, KeyProducts, string(out))
	p.ActivateSearch(context.Background(), m.Mount)

	dispatch(t, m.Main.Listeners(), dom.Event{Type: "input", Control: "product-search", Value: "ecran"})

	grid, ok := m.Main.Fragment("product-grid")
	if !ok {
		t.Fatal("search should patch the product grid")
	}
	if countControls(t, grid, "product-card") != 1 || !strings.Contains(grid, "Écran") {
		t.Errorf("expected only the screen, got %s", grid)
	}
}

func TestProductFilters(t *testing.T) {
	p := NewModules(inventory(), 5).Products
	out, _ := p.List(adminCtx(), 0)
	m := newTestMount(t, KeyProducts, string(out))
	p.ActivateFilter(context.Background(), m.Mount)
	l := m.Main.Listeners()

	dispatch(t, l, dom.Event{Type: "change", Control: "product-filter-category", Value: "2"})
	grid, _ := m.Main.Fragment("product-grid")
	if n := countControls(t, grid, "product-card"); n != 2 {
		t.Errorf("category filter: expected 2 cards, got %d", n)
	}

	dispatch(t, l, dom.Event{Type: "change", Control: "product-filter-stock", Value: "out"})
	grid, _ = m.Main.Fragment("product-grid")
	if n := countControls(t, grid, "product-card"); n != 1 || !strings.Contains(grid, "Souris") {
		t.Errorf("stock filter: expected only the mouse, got %s", grid)
	}

	dispatch(t, l, dom.Event{Type: "change", Control: "product-filter-supplier", Value: "2"})
	grid, _ = m.Main.Fragment("product-grid")
	if !strings.Contains(grid, "empty-state") {
		t.Errorf("combined filters should yield the empty state, got %s", grid)
	}
}

func TestProductCardClickSetsHash(t *testing.T) {
	p := NewModules(inventory(), 5).Products
	out, _ := p.List(adminCtx(), 0)
	m := newTestMount(t, KeyProducts, string(out))
	p.ActivateCardClick(context.Background(), m.Mount)

	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "product-card", Data: map[string]string{"id": "3"}})
	if got := m.hash.last(); got != "#/product-detail/3" {
		t.Errorf("expected hash #/product-detail/3, got %q", got)
	}
}

func TestAddProductModal(t *testing.T) {
	fake := inventory()
	p := NewModules(fake, 5).Products
	out, _ := p.List(adminCtx(), 0)
	m := newTestMount(t, KeyProducts, string(out))
	p.ActivateAddButton(context.Background(), m.Mount)

	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "product-add"})
	if !m.Overlay.IsOpen() {
		t.Fatal("add button should open the modal")
	}

	ol := m.Overlay.Listeners()
	dispatch(t, ol, dom.Event{Type: "submit", Control: "product-form", Form: map[string]string{"name": " "}})
	if msg, _ := m.Overlay.Fragment("modal-error"); msg == "" {
		t.Error("missing name should be reported inside the modal")
	}
	if !m.Overlay.IsOpen() {
		t.Error("modal should stay open on a validation error")
	}

	dispatch(t, ol, dom.Event{Type: "submit", Control: "product-form", Form: map[string]string{
		"name": "Webcam", "price": "39,90", "quantity": "7", "categoryId": "2", "supplierId": "1",
	}})
	if m.Overlay.IsOpen() {
		t.Error("modal should close after a successful submit")
	}
	if m.reloads != 1 {
		t.Errorf("expected one reload, got %d", m.reloads)
	}
	last := fake.ProductList[len(fake.ProductList)-1]
	if last.Name != "Webcam" || last.Price != 39.9 || last.Quantity != 7 {
		t.Errorf("unexpected created product %+v", last)
	}
}

func TestModalCancel(t *testing.T) {
	c := NewModules(inventory(), 5).Categories
	out, _ := c.List(adminCtx(), 0)
	m := newTestMount(t, KeyCategories, string(out))
	c.ActivateAddButton(context.Background(), m.Mount)

	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "category-add"})
	dispatch(t, m.Overlay.Listeners(), dom.Event{Type: "click", Control: "modal-cancel"})
	if m.Overlay.IsOpen() {
		t.Error("cancel should close the modal")
	}
	if m.reloads != 0 {
		t.Error("cancel must not reload the view")
	}
}

func TestCategoryListCountsProducts(t *testing.T) {
	c := NewModules(inventory(), 5).Categories
	out, err := c.List(adminCtx(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "2 produit(s)") || !strings.Contains(s, "1 produit(s)") {
		t.Errorf("expected product counts, got %s", s)
	}

	m := newTestMount(t, KeyCategories, s)
	c.ActivateCardClick(context.Background(), m.Mount)
	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "category-card", Data: map[string]string{"id": "2"}})
	if got := m.hash.last(); got != "#/category-product-list/2" {
		t.Errorf("unexpected hash %q", got)
	}
}

func TestCategoryProducts(t *testing.T) {
	p := NewModules(inventory(), 5).Products

	out, err := p.CategoryList(adminCtx(), 2)
	if err != nil {
		t.Fatalf("CategoryList: %v", err)
	}
	if n := countControls(t, string(out), "product-card"); n != 2 {
		t.Errorf("expected 2 products in category, got %d", n)
	}
	if !strings.Contains(string(out), "Périphériques") {
		t.Error("expected the category name as title")
	}

	missing, _ := p.CategoryList(adminCtx(), 99)
	if !strings.Contains(string(missing), "Catégorie non trouvée") {
		t.Errorf("expected not-found fragment, got %s", missing)
	}
}

func TestSupplierDetail(t *testing.T) {
	s := NewModules(inventory(), 5).Suppliers

	out, err := s.Detail(adminCtx(), 1)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if n := countControls(t, string(out), "product-card"); n != 2 {
		t.Errorf("expected 2 products from Dupont SA, got %d", n)
	}

	missing, _ := s.Detail(adminCtx(), 7)
	if !strings.Contains(string(missing), "Fournisseur non trouvé") {
		t.Errorf("expected not-found fragment, got %s", missing)
	}
}

func TestSupplierSearch(t *testing.T) {
	s := NewModules(inventory(), 5).Suppliers
	out, _ := s.List(adminCtx(), 0)
	m := newTestMount(t, KeySuppliers, string(out))
	s.ActivateSearch(context.Background(), m.Mount)

	dispatch(t, m.Main.Listeners(), dom.Event{Type: "input", Control: "supplier-search", Value: "martin"})
	table, _ := m.Main.Fragment("supplier-table")
	if countControls(t, table, "supplier-row") != 1 || !strings.Contains(table, "Martin") {
		t.Errorf("unexpected search result %s", table)
	}
}

func TestOrderActions(t *testing.T) {
	fake := inventory()
	o := NewModules(fake, 5).Orders
	out, err := o.List(adminCtx(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if countControls(t, string(out), "order-validate") != 1 {
		t.Fatal("only the pending order should offer validation")
	}

	m := newTestMount(t, KeyOrders, string(out))
	o.ActivateActions(context.Background(), m.Mount)
	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "order-validate", Data: map[string]string{"id": "10"}})

	if fake.StatusUpdates[10] != api.OrderValidated {
		t.Errorf("expected order 10 validated, got %v", fake.StatusUpdates)
	}
	table, _ := m.Main.Fragment("order-table")
	if countControls(t, table, "order-validate") != 0 || !strings.Contains(table, "Validée") {
		t.Errorf("table should reflect the new status, got %s", table)
	}
}

func TestOrderStatusFilterAndEmployeeView(t *testing.T) {
	o := NewModules(inventory(), 5).Orders
	out, _ := o.List(employeeCtx(), 0)
	if countControls(t, string(out), "order-validate") != 0 {
		t.Error("employees cannot validate orders")
	}

	m := newTestMount(t, KeyOrders, string(out))
	o.ActivateFilter(context.Background(), m.Mount)
	dispatch(t, m.Main.Listeners(), dom.Event{Type: "change", Control: "order-filter-status", Value: "DELIVERED"})
	table, _ := m.Main.Fragment("order-table")
	if !strings.Contains(table, "CMD-11") || strings.Contains(table, "CMD-10") {
		t.Errorf("unexpected filtered table %s", table)
	}
}

func TestUserDeleteFlow(t *testing.T) {
	fake := inventory()
	u := NewModules(fake, 5).Users
	out, _ := u.List(adminCtx(), 0)
	if countControls(t, string(out), "user-delete") != 1 {
		t.Fatal("the signed-in user must not get a delete button for themselves")
	}

	m := newTestMount(t, KeyUsers, string(out))
	u.ActivateDelete(context.Background(), m.Mount)
	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "user-delete", Data: map[string]string{"id": "2"}})
	if !strings.Contains(m.Overlay.HTML(), "paul") {
		t.Fatal("confirmation modal should name the user")
	}
	dispatch(t, m.Overlay.Listeners(), dom.Event{Type: "click", Control: "user-delete-confirm", Data: map[string]string{"id": "2"}})

	if len(fake.DeletedUsers) != 1 || fake.DeletedUsers[0] != 2 {
		t.Errorf("expected user 2 deleted, got %v", fake.DeletedUsers)
	}
	if m.reloads != 1 {
		t.Error("deleting should reload the view")
	}
}

func TestAddUserDefaultsRole(t *testing.T) {
	fake := inventory()
	u := NewModules(fake, 5).Users
	out, _ := u.List(adminCtx(), 0)
	m := newTestMount(t, KeyUsers, string(out))
	u.ActivateAddButton(context.Background(), m.Mount)

	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "user-add"})
	dispatch(t, m.Overlay.Listeners(), dom.Event{Type: "submit", Control: "user-form", Form: map[string]string{
		"username": "lea", "password": "secret",
	}})
	last := fake.UserList[len(fake.UserList)-1]
	if last.Username != "lea" || last.Role != "EMPLOYEE" {
		t.Errorf("unexpected created user %+v", last)
	}
}

func TestDashboard(t *testing.T) {
	d := NewModules(inventory(), 5).Dashboard
	out, err := d.Produce(adminCtx(), 0)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "Bonjour marie") {
		t.Error("expected greeting")
	}
	if !strings.Contains(s, "1/2") {
		t.Errorf("expected 1 pending order out of 2, got %s", s)
	}
	if n := countControls(t, s, "product-card"); n != 2 {
		t.Errorf("expected 2 low-stock entries, got %d", n)
	}
	if strings.Index(s, "Souris") > strings.Index(s, "Clavier") {
		t.Error("low-stock list should start with the emptiest product")
	}

	m := newTestMount(t, KeyDashboard, s)
	d.ActivateShortcuts(context.Background(), m.Mount)
	dispatch(t, m.Main.Listeners(), dom.Event{Type: "click", Control: "dashboard-card", Data: map[string]string{"route": "#/orders"}})
	if m.hash.last() != "#/orders" {
		t.Errorf("unexpected hash %q", m.hash.last())
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		query  string
		fields []string
		want   bool
	}{
		{"", []string{"anything"}, true},
		{"périph", []string{"Peripheriques"}, true},
		{"CLAVIER meca", []string{"Clavier mécanique"}, true},
		{"clavier souris", []string{"Clavier mécanique"}, false},
		{"dupont", []string{"Écran", "Dupont SA"}, true},
	}
	for _, tt := range tests {
		if got := matches(tt.query, tt.fields...); got != tt.want {
			t.Errorf("matches(%q, %v) = %v, want %v", tt.query, tt.fields, got, tt.want)
		}
	}
}
