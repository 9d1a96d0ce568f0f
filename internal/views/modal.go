package views

import (
	"context"
	"errors"
	"html/template"
	"strconv"
	"strings"

	"github.com/ziadkadry99/stock-console/internal/dom"
)

const (
	eventClick  = "click"
	eventInput  = "input"
	eventChange = "change"
	eventSubmit = "submit"
)

// errInvalidForm marks a submission rejected before reaching the API.
var errInvalidForm = errors.New("formulaire invalide")

// openModal shows html in the overlay region and wires its cancel button
// and the confirming control. A failing confirm keeps the modal open with
// the error in #modal-error; a successful one closes it and reloads the
// view.
func openModal(m *Mount, html template.HTML, control, event string, confirm func(ctx context.Context, ev dom.Event) error) error {
	if err := m.Overlay.Open(string(html)); err != nil {
		return err
	}
	l := m.Overlay.Listeners()
	l.Bind("modal-cancel", eventClick, func(context.Context, dom.Event) error {
		return m.Overlay.Close()
	})
	l.Bind(control, event, func(ctx context.Context, ev dom.Event) error {
		if err := confirm(ctx, ev); err != nil {
			return m.Overlay.Patch("modal-error", template.HTMLEscapeString(err.Error()))
		}
		if err := m.Overlay.Close(); err != nil {
			return err
		}
		if m.Reload != nil {
			return m.Reload(ctx)
		}
		return nil
	})
	return nil
}

// bindBack wires the "back" button present on detail and not-found views.
func bindBack(m *Mount) {
	m.Main.Listeners().Bind("back", eventClick, func(_ context.Context, ev dom.Event) error {
		route := ev.Data["route"]
		if route == "" {
			route = "#/"
		}
		m.Hash.SetHash(route)
		return nil
	})
}

// ActivateBack wires the back button of a detail view.
func ActivateBack(_ context.Context, m *Mount) error {
	bindBack(m)
	return nil
}

func formValue(ev dom.Event, name string) string {
	return strings.TrimSpace(ev.Form[name])
}

func formInt(ev dom.Event, name string) (int, error) {
	v := formValue(ev, name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errInvalidForm
	}
	return n, nil
}

func formFloat(ev dom.Event, name string) (float64, error) {
	v := strings.ReplaceAll(formValue(ev, name), ",", ".")
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errInvalidForm
	}
	return f, nil
}

func notFound(title, back string) (template.HTML, error) {
	return execute("not-found", struct{ Title, Back string }{title, back})
}
