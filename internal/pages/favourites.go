package pages

import (
	"fmt"
	"strings"

	"github.com/ternarybob/iudex/internal/browser"
)

// FavouritesPage covers the favourite-star toggle on documents and the
// Favourites management view
type FavouritesPage struct {
	page

	starToggle     browser.Locator
	modal          browser.Locator
	modalSave      browser.Locator
	newGroupInput  browser.Locator
	newGroupButton browser.Locator
	favouritesNav  browser.Locator
	favouritesList browser.Locator
}

// NewFavouritesPage creates the favourites page object
func NewFavouritesPage(s *browser.Session) *FavouritesPage {
	return &FavouritesPage{
		page: page{s: s},
		starToggle: browser.NewLocator("favouriteStar",
			browser.Css("#co_favoritesIcon"),
			browser.Css(".co_favorites_star"),
			browser.XPath("//button[contains(@title,'favourites')]"),
		),
		modal: browser.NewLocator("favouritesModal",
			browser.Css("#co_favoritesModal"),
			browser.Css(".co_favoritesDialog"),
		),
		modalSave: browser.NewLocator("favouritesModalSave",
			browser.Css("#co_favoritesModalSaveButton"),
			browser.XPath("//div[@id='co_favoritesModal']//button[normalize-space(.)='Save']"),
		),
		newGroupInput: browser.NewLocator("favouritesNewGroupInput",
			browser.Css("#co_favoritesModalNewGroupInput"),
			browser.Css("#co_favoritesModal input[type='text']"),
		),
		newGroupButton: browser.NewLocator("favouritesNewGroupButton",
			browser.Css("#co_favoritesModalNewGroupButton"),
			browser.XPath("//div[@id='co_favoritesModal']//a[contains(normalize-space(.),'Create new group')]"),
		),
		favouritesNav: browser.NewLocator("favouritesNavLink",
			browser.Css("#co_favorites_link"),
			browser.XPath("//a[normalize-space(text())='Favourites']"),
		),
		favouritesList: browser.NewLocator("favouritesList",
			browser.Css("#co_favorites_container"),
			browser.Css(".co_favoritesListContainer"),
		),
	}
}

// AddCurrentPage stars the open document and files it under groupName.
// Pass an empty group to accept the default group.
func (p *FavouritesPage) AddCurrentPage(groupName string) error {
	if err := p.click(p.starToggle); err != nil {
		return fmt.Errorf("add favourite: %w", err)
	}
	if err := p.waitVisible(p.modal); err != nil {
		return fmt.Errorf("favourites dialog did not open: %w", err)
	}

	if groupName != "" {
		if err := p.click(p.newGroupButton); err != nil {
			return fmt.Errorf("add favourite group: %w", err)
		}
		if err := p.setValue(p.newGroupInput, groupName); err != nil {
			return fmt.Errorf("add favourite group: %w", err)
		}
	}

	if err := p.click(p.modalSave); err != nil {
		return fmt.Errorf("save favourite: %w", err)
	}
	return nil
}

// IsStarred reports whether the current document's star is toggled on
func (p *FavouritesPage) IsStarred() (bool, error) {
	var active bool
	script := `(() => {
		const el = document.querySelector('#co_favoritesIcon, .co_favorites_star');
		if (!el) return false;
		return el.classList.contains('co_favorites_active') || el.getAttribute('aria-pressed') === 'true';
	})()`
	if err := p.s.Run(evaluate(script, &active)); err != nil {
		return false, err
	}
	return active, nil
}

// OpenFavourites navigates to the Favourites management view
func (p *FavouritesPage) OpenFavourites() error {
	if err := p.click(p.favouritesNav); err != nil {
		return fmt.Errorf("open favourites: %w", err)
	}
	return p.waitVisible(p.favouritesList)
}

// Titles lists the favourite entries currently shown
func (p *FavouritesPage) Titles() ([]string, error) {
	return p.textList(`Array.from(
		document.querySelectorAll('#co_favorites_container .co_favorites_itemTitle, .co_favoritesListContainer a.co_favoriteLink')
	).map(a => a.textContent.trim()).filter(t => t.length > 0)`)
}

// Contains reports whether a favourite with the given title exists
func (p *FavouritesPage) Contains(title string) (bool, error) {
	titles, err := p.Titles()
	if err != nil {
		return false, err
	}
	for _, t := range titles {
		if strings.EqualFold(t, title) || strings.Contains(t, title) {
			return true, nil
		}
	}
	return false, nil
}

// Remove deletes the favourite with the given title from the list view
func (p *FavouritesPage) Remove(title string) error {
	loc := browser.NewLocator(fmt.Sprintf("favouriteDelete[%s]", title),
		browser.XPath(fmt.Sprintf(
			"//div[@id='co_favorites_container']//*[contains(normalize-space(text()),%s)]/ancestor::li//button[contains(@class,'co_favorites_delete')]",
			xpathString(title))),
		browser.XPath(fmt.Sprintf(
			"//*[contains(@class,'co_favoritesListContainer')]//*[contains(normalize-space(text()),%s)]/ancestor::li//a[contains(@title,'Remove')]",
			xpathString(title))),
	)
	if err := p.click(loc); err != nil {
		return fmt.Errorf("remove favourite %q: %w", title, err)
	}
	return nil
}
