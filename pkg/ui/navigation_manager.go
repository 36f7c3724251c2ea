package ui

import (
	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/rivo/tview"
)

// NavigationManager switches between persistent pages and keeps a stack of
// modal overlays on top of them.
type NavigationManager struct {
	app             AppInterface
	pages           *tview.Pages
	persistentPages map[string]Page
	history         []string
	modalStack      []string
}

// NewNavigationManager creates a new manager for page navigation.
func NewNavigationManager(app AppInterface, pages *tview.Pages) *NavigationManager {
	return &NavigationManager{
		app:             app,
		pages:           pages,
		persistentPages: make(map[string]Page),
	}
}

// Register adds a persistent page. It is created once and switched to by ID.
func (n *NavigationManager) Register(pageID string, page Page) {
	if _, exists := n.persistentPages[pageID]; exists {
		logging.Errorf("NavigationManager: A page with ID '%s' is already registered. It will be replaced.", pageID)
		n.pages.RemovePage(pageID)
	}
	n.persistentPages[pageID] = page
	n.pages.AddPage(pageID, page, true, false)
}

func (n *NavigationManager) updateUIForPage(page Page) {
	if page == nil {
		n.app.Layout().SetFooter(nil)
		n.app.Layout().SetHeader(nil)
		return
	}
	n.app.Layout().SetFooter(page.GetActionPrompts())
	n.app.Layout().SetHeader(page.GetStatusPrimitive())
	n.app.SetFocus(page)
}

// SwitchTo shows the persistent page pageID and records the previous one
// for GoBack. Open modals are closed first.
func (n *NavigationManager) SwitchTo(pageID string) {
	page, ok := n.persistentPages[pageID]
	if !ok {
		return
	}
	for n.HasModal() {
		n.popModal()
	}

	currentID, _ := n.pages.GetFrontPage()
	if currentID != pageID {
		if _, isPersistent := n.persistentPages[currentID]; isPersistent {
			n.history = append(n.history, currentID)
		}
	}

	n.pages.SwitchToPage(pageID)
	n.updateUIForPage(page)
	if activator, ok := page.(PageActivator); ok {
		activator.OnPageActivated()
	}
}

// GoBack returns to the previous persistent page, if any.
func (n *NavigationManager) GoBack() {
	if len(n.history) == 0 {
		return
	}
	lastPageID := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]

	n.pages.SwitchToPage(lastPageID)
	lastPage := n.persistentPages[lastPageID]
	n.updateUIForPage(lastPage)
	if activator, ok := lastPage.(PageActivator); ok {
		activator.OnPageActivated()
	}
}

// ShowModal displays a transient page over the current view.
func (n *NavigationManager) ShowModal(pageID string, page Page) {
	if n.pages.HasPage(pageID) {
		n.pages.RemovePage(pageID)
		n.removeFromStack(pageID)
	}
	n.pages.AddPage(pageID, page, true, true)
	n.modalStack = append(n.modalStack, pageID)
	n.updateUIForPage(page)
}

// CloseModal removes the top-most modal page and restores the page below.
func (n *NavigationManager) CloseModal() {
	if !n.HasModal() {
		return
	}
	n.popModal()
	n.updateUIForPage(n.GetCurrentPage())
}

func (n *NavigationManager) popModal() {
	modalID := n.modalStack[len(n.modalStack)-1]
	n.modalStack = n.modalStack[:len(n.modalStack)-1]
	n.pages.RemovePage(modalID)
}

func (n *NavigationManager) removeFromStack(pageID string) {
	for i, id := range n.modalStack {
		if id == pageID {
			n.modalStack = append(n.modalStack[:i], n.modalStack[i+1:]...)
			return
		}
	}
}

// HasModal reports whether a modal overlay is open.
func (n *NavigationManager) HasModal() bool {
	return len(n.modalStack) > 0
}

// CurrentPageID returns the ID of the front persistent page, ignoring modals.
func (n *NavigationManager) CurrentPageID() string {
	current := ""
	for _, name := range n.pages.GetPageNames(true) {
		if _, ok := n.persistentPages[name]; ok {
			current = name
		}
	}
	return current
}

// GetCurrentPage returns the front-most page, modal or persistent.
func (n *NavigationManager) GetCurrentPage() Page {
	if n.HasModal() {
		_, primitive := n.pages.GetFrontPage()
		if p, ok := primitive.(Page); ok {
			return p
		}
	}
	if page, ok := n.persistentPages[n.CurrentPageID()]; ok {
		return page
	}
	return nil
}

// ToggleLogPage either switches to the log page or goes back if already there.
func (n *NavigationManager) ToggleLogPage() {
	if n.CurrentPageID() == PageLogID && !n.HasModal() {
		n.GoBack()
	} else {
		n.SwitchTo(PageLogID)
	}
}
