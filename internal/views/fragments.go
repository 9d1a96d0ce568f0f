package views

import (
	"html/template"
	"strconv"
)

// Fixed fragments mounted by the renderer and router.
const (
	LoadingHTML  template.HTML = `<div class="loading" role="status">Chargement...</div>`
	NotFoundHTML template.HTML = `<div class="not-found"><h2>Page non trouvée</h2><p>Cette page n'existe pas.</p><a href="#/">Retour à l'accueil</a></div>`
)

// ErrorHTML is the inline fragment shown when a view could not load.
func ErrorHTML(err error) template.HTML {
	out, rerr := execute("error", err.Error())
	if rerr != nil {
		return `<div class="error" role="alert">Erreur de chargement</div>`
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
