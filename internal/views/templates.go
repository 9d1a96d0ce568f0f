package views

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f €", v) },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02/01/2006")
	},
	"hash": Hash,
}

var tmpl = template.Must(template.New("views").Funcs(templateFuncs).Parse(viewTemplates))

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

const viewTemplates = `
{{define "error"}}<div class="error" role="alert"><h3>Erreur de chargement</h3><p>{{.}}</p></div>{{end}}

{{define "empty"}}<p class="empty-state">{{.}}</p>{{end}}

{{define "not-found"}}<div class="not-found"><h2>{{.Title}}</h2><button type="button" data-control="back" data-route="{{.Back}}">Retour</button></div>{{end}}

{{define "dashboard"}}<section class="dashboard">
  <h1>Tableau de bord</h1>
  {{if .Username}}<p class="greeting">Bonjour {{.Username}}</p>{{end}}
  <div class="stats">
    <div class="stat-card" data-control="dashboard-card" data-route="{{hash "product-list" 0}}"><span class="stat-value">{{.ProductCount}}</span><span class="stat-label">Produits</span></div>
    <div class="stat-card" data-control="dashboard-card" data-route="{{hash "categories" 0}}"><span class="stat-value">{{.CategoryCount}}</span><span class="stat-label">Catégories</span></div>
    <div class="stat-card" data-control="dashboard-card" data-route="{{hash "suppliers" 0}}"><span class="stat-value">{{.SupplierCount}}</span><span class="stat-label">Fournisseurs</span></div>
    <div class="stat-card" data-control="dashboard-card" data-route="{{hash "orders" 0}}"><span class="stat-value">{{.PendingOrders}}/{{.OrderCount}}</span><span class="stat-label">Commandes en attente</span></div>
    <div class="stat-card"><span class="stat-value">{{.PendingRequests}}</span><span class="stat-label">Demandes en cours</span></div>
  </div>
  <h2>Stock faible (≤ {{.Threshold}})</h2>
  {{if .LowStock}}<ul class="low-stock">{{range .LowStock}}
    <li data-control="product-card" data-id="{{.ID}}"><strong>{{.Name}}</strong> <span class="stock stock-{{.Stock}}">{{.Quantity}}</span></li>{{end}}
  </ul>{{else}}{{template "empty" "Aucun produit en stock faible."}}{{end}}
</section>{{end}}

{{define "product-list"}}<section class="products">
  <header class="view-header">
    <h1>{{.Title}}</h1>
    {{if .Back}}<button type="button" data-control="back" data-route="{{.Back}}">Retour</button>{{end}}
    {{if .Admin}}<button type="button" class="primary" data-control="product-add">Ajouter un produit</button>{{end}}
  </header>
  <div class="toolbar">
    <input type="search" placeholder="Rechercher un produit" data-control="product-search" value="{{.Filter.Query}}">
    {{if .ShowFilters}}
    <select data-control="product-filter-category">
      <option value="0">Toutes les catégories</option>{{range .Categories}}
      <option value="{{.ID}}">{{.Name}}</option>{{end}}
    </select>
    <select data-control="product-filter-supplier">
      <option value="0">Tous les fournisseurs</option>{{range .Suppliers}}
      <option value="{{.ID}}">{{.Name}}</option>{{end}}
    </select>
    <select data-control="product-filter-stock">
      <option value="">Tout le stock</option>
      <option value="low">Stock faible</option>
      <option value="out">Rupture</option>
    </select>{{end}}
  </div>
  <div id="product-grid" class="grid">{{.Grid}}</div>
</section>{{end}}

{{define "product-grid"}}{{if .}}{{range .}}<article class="card product-card" data-control="product-card" data-id="{{.ID}}">
  <h3>{{.Name}}</h3>
  <p class="reference">{{.Reference}}</p>
  <p class="meta">{{.CategoryName}} · {{.SupplierName}}</p>
  <p class="price">{{money .Price}}</p>
  <span class="stock stock-{{.Stock}}">{{.Quantity}} en stock</span>
</article>{{end}}{{else}}{{template "empty" "Aucun produit trouvé."}}{{end}}{{end}}

{{define "product-detail"}}<section class="product-detail">
  <button type="button" data-control="back" data-route="{{hash "product-list" 0}}">Retour</button>
  <h1>{{.Name}}</h1>
  <dl>
    <dt>Référence</dt><dd>{{.Reference}}</dd>
    <dt>Catégorie</dt><dd>{{.CategoryName}}</dd>
    <dt>Fournisseur</dt><dd>{{.SupplierName}}</dd>
    <dt>Prix</dt><dd>{{money .Price}}</dd>
    <dt>Stock</dt><dd class="stock stock-{{.Stock}}">{{.Quantity}}</dd>
  </dl>
  <div class="description">{{.Description}}</div>
</section>{{end}}

{{define "product-form"}}<div class="modal" role="dialog">
  <form data-control="product-form">
    <h2>Nouveau produit</h2>
    <p id="modal-error" class="error">{{.Error}}</p>
    <label>Nom <input name="name" required></label>
    <label>Référence <input name="reference"></label>
    <label>Prix <input name="price" type="number" step="0.01" min="0"></label>
    <label>Quantité <input name="quantity" type="number" min="0"></label>
    <label>Catégorie <select name="categoryId">{{range .Categories}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select></label>
    <label>Fournisseur <select name="supplierId">{{range .Suppliers}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select></label>
    <label>Description <textarea name="description"></textarea></label>
    <div class="actions"><button type="button" data-control="modal-cancel">Annuler</button><button type="submit" class="primary">Enregistrer</button></div>
  </form>
</div>{{end}}

{{define "category-list"}}<section class="categories">
  <header class="view-header">
    <h1>Catégories</h1>
    {{if .Admin}}<button type="button" class="primary" data-control="category-add">Ajouter une catégorie</button>{{end}}
  </header>
  <div class="toolbar"><input type="search" placeholder="Rechercher une catégorie" data-control="category-search"></div>
  <div id="category-grid" class="grid">{{.Grid}}</div>
</section>{{end}}

{{define "category-grid"}}{{if .}}{{range .}}<article class="card category-card" data-control="category-card" data-id="{{.ID}}">
  <h3>{{.Name}}</h3>
  <div class="description">{{.Description}}</div>
  <span class="count">{{.Count}} produit(s)</span>
</article>{{end}}{{else}}{{template "empty" "Aucune catégorie trouvée."}}{{end}}{{end}}

{{define "category-form"}}<div class="modal" role="dialog">
  <form data-control="category-form">
    <h2>Nouvelle catégorie</h2>
    <p id="modal-error" class="error">{{.Error}}</p>
    <label>Nom <input name="name" required></label>
    <label>Description <textarea name="description"></textarea></label>
    <div class="actions"><button type="button" data-control="modal-cancel">Annuler</button><button type="submit" class="primary">Enregistrer</button></div>
  </form>
</div>{{end}}

{{define "supplier-list"}}<section class="suppliers">
  <header class="view-header">
    <h1>Fournisseurs</h1>
    {{if .Admin}}<button type="button" class="primary" data-control="supplier-add">Ajouter un fournisseur</button>{{end}}
  </header>
  <div class="toolbar"><input type="search" placeholder="Rechercher un fournisseur" data-control="supplier-search"></div>
  <div id="supplier-table">{{.Table}}</div>
</section>{{end}}

{{define "supplier-table"}}{{if .}}<table>
  <thead><tr><th>Nom</th><th>Email</th><th>Téléphone</th><th>Adresse</th></tr></thead>
  <tbody>{{range .}}<tr data-control="supplier-row" data-id="{{.ID}}"><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.Phone}}</td><td>{{.Address}}</td></tr>{{end}}</tbody>
</table>{{else}}{{template "empty" "Aucun fournisseur trouvé."}}{{end}}{{end}}

{{define "supplier-detail"}}<section class="supplier-detail">
  <button type="button" data-control="back" data-route="{{hash "suppliers" 0}}">Retour</button>
  <h1>{{.Supplier.Name}}</h1>
  <dl>
    <dt>Email</dt><dd>{{.Supplier.Email}}</dd>
    <dt>Téléphone</dt><dd>{{.Supplier.Phone}}</dd>
    <dt>Adresse</dt><dd>{{.Supplier.Address}}</dd>
  </dl>
  <h2>Produits fournis</h2>
  <div id="product-grid" class="grid">{{.Grid}}</div>
</section>{{end}}

{{define "supplier-form"}}<div class="modal" role="dialog">
  <form data-control="supplier-form">
    <h2>Nouveau fournisseur</h2>
    <p id="modal-error" class="error">{{.Error}}</p>
    <label>Nom <input name="name" required></label>
    <label>Email <input name="email" type="email"></label>
    <label>Téléphone <input name="phone"></label>
    <label>Adresse <input name="address"></label>
    <div class="actions"><button type="button" data-control="modal-cancel">Annuler</button><button type="submit" class="primary">Enregistrer</button></div>
  </form>
</div>{{end}}

{{define "order-list"}}<section class="orders">
  <header class="view-header"><h1>Commandes</h1></header>
  <div class="toolbar">
    <input type="search" placeholder="Rechercher une commande" data-control="order-search">
    <select data-control="order-filter-status">
      <option value="">Tous les statuts</option>
      <option value="PENDING">En attente</option>
      <option value="VALIDATED">Validée</option>
      <option value="DELIVERED">Livrée</option>
      <option value="CANCELLED">Annulée</option>
    </select>
  </div>
  <div id="order-table">{{.Table}}</div>
</section>{{end}}

{{define "order-table"}}{{if .Rows}}<table>
  <thead><tr><th>Référence</th><th>Produit</th><th>Fournisseur</th><th>Quantité</th><th>Date</th><th>Statut</th>{{if .Admin}}<th></th>{{end}}</tr></thead>
  <tbody>{{range .Rows}}<tr>
    <td>{{.Reference}}</td><td>{{.ProductName}}</td><td>{{.SupplierName}}</td><td>{{.Quantity}}</td><td>{{date .CreatedAt}}</td>
    <td><span class="status status-{{.Status}}">{{.StatusLabel}}</span></td>
    {{if $.Admin}}<td>{{if .Pending}}<button type="button" data-control="order-validate" data-id="{{.ID}}">Valider</button><button type="button" data-control="order-cancel" data-id="{{.ID}}">Annuler</button>{{end}}</td>{{end}}
  </tr>{{end}}</tbody>
</table>{{else}}{{template "empty" "Aucune commande trouvée."}}{{end}}{{end}}

{{define "user-list"}}<section class="users">
  <header class="view-header">
    <h1>Utilisateurs</h1>
    <button type="button" class="primary" data-control="user-add">Ajouter un utilisateur</button>
  </header>
  <div class="toolbar"><input type="search" placeholder="Rechercher un utilisateur" data-control="user-search"></div>
  <div id="user-table">{{.Table}}</div>
</section>{{end}}

{{define "user-table"}}{{if .Rows}}<table>
  <thead><tr><th>Nom</th><th>Email</th><th>Rôle</th><th></th></tr></thead>
  <tbody>{{range .Rows}}<tr>
    <td>{{.Username}}</td><td>{{.Email}}</td><td>{{.Role}}</td>
    <td>{{if ne .Username $.Self}}<button type="button" class="danger" data-control="user-delete" data-id="{{.ID}}">Supprimer</button>{{end}}</td>
  </tr>{{end}}</tbody>
</table>{{else}}{{template "empty" "Aucun utilisateur trouvé."}}{{end}}{{end}}

{{define "user-form"}}<div class="modal" role="dialog">
  <form data-control="user-form">
    <h2>Nouvel utilisateur</h2>
    <p id="modal-error" class="error">{{.Error}}</p>
    <label>Nom d'utilisateur <input name="username" required></label>
    <label>Email <input name="email" type="email"></label>
    <label>Mot de passe <input name="password" type="password" required></label>
    <label>Rôle <select name="role"><option value="EMPLOYEE">Employé</option><option value="ADMIN">Administrateur</option></select></label>
    <div class="actions"><button type="button" data-control="modal-cancel">Annuler</button><button type="submit" class="primary">Enregistrer</button></div>
  </form>
</div>{{end}}

{{define "user-delete-confirm"}}<div class="modal" role="alertdialog">
  <p>Supprimer l'utilisateur <strong>{{.Username}}</strong> ?</p>
  <p id="modal-error" class="error"></p>
  <div class="actions"><button type="button" data-control="modal-cancel">Annuler</button><button type="button" class="danger" data-control="user-delete-confirm" data-id="{{.ID}}">Supprimer</button></div>
</div>{{end}}
`
