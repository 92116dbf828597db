package shop

import (
	"fmt"
	"strconv"

	"allyshop/internal/catalog"
	"allyshop/internal/dom"
)

// pageHandles are the elements the controllers hold onto directly instead of
// re-querying the document on every action.
type pageHandles struct {
	navButtons   []*dom.Element
	searchButton *dom.Element
	searchForm   *dom.Element
	searchInput  *dom.Element
}

// buildPage renders the storefront scaffold onto the document: skip link,
// header with navigation and tools, search form, product grid, login form
// and footer. Ids and ARIA wiring follow the markup the controllers expect.
func (s *Shop) buildPage() pageHandles {
	doc := s.Doc
	root := doc.Root()

	skip := doc.CreateElement("a")
	skip.SetAttribute("id", "skip-link")
	skip.SetAttribute("href", "#main-content")
	skip.SetText("본문으로 바로가기")
	root.AppendChild(skip)

	header := doc.CreateElement("header")
	header.SetAttribute("role", "banner")
	root.AppendChild(header)

	handles := pageHandles{
		navButtons: s.buildNav(header),
	}

	tools := doc.CreateElement("div")
	tools.SetAttribute("id", "a11y-tools")
	tools.SetAttribute("role", "toolbar")
	tools.SetAttribute("aria-label", "접근성 도구")
	header.AppendChild(tools)
	s.buildTools(tools)

	cartBtn := doc.CreateElement("button")
	cartBtn.SetAttribute("id", "cart-button")
	cartBtn.SetAttribute("aria-label", "장바구니 (0개 상품)")
	header.AppendChild(cartBtn)
	cartCount := doc.CreateElement("span")
	cartCount.SetAttribute("id", "cart-count")
	cartCount.SetAttribute("aria-live", "off")
	cartCount.SetText("0")
	cartBtn.AppendChild(cartCount)

	handles.searchButton, handles.searchForm, handles.searchInput = s.buildSearch(header)

	main := doc.CreateElement("main")
	main.SetAttribute("id", "main-content")
	main.SetAttribute("role", "main")
	main.SetAttribute("tabindex", "-1")
	root.AppendChild(main)

	products := doc.CreateElement("section")
	products.SetAttribute("id", "products")
	products.SetAttribute("aria-label", "상품 목록")
	main.AppendChild(products)
	for _, p := range s.Catalog.All() {
		products.AppendChild(s.buildProductCard(p))
	}

	main.AppendChild(s.buildLoginForm())
	root.AppendChild(s.buildFooter())

	return handles
}

func (s *Shop) buildNav(header *dom.Element) []*dom.Element {
	doc := s.Doc
	navEl := doc.CreateElement("nav")
	navEl.SetAttribute("role", "navigation")
	navEl.SetAttribute("aria-label", "주요 메뉴")
	header.AppendChild(navEl)

	list := doc.CreateElement("ul")
	list.SetAttribute("id", "nav-list")
	navEl.AppendChild(list)

	labels := []struct{ id, text string }{
		{"nav-home", "홈"},
		{"nav-cart", "장바구니"},
		{"nav-mypage", "마이페이지"},
	}
	buttons := make([]*dom.Element, 0, len(labels))
	for _, l := range labels {
		item := doc.CreateElement("li")
		btn := doc.CreateElement("button")
		btn.SetAttribute("id", l.id)
		btn.SetAttribute("aria-current", "false")
		btn.SetText(l.text)
		item.AppendChild(btn)
		list.AppendChild(item)
		buttons = append(buttons, btn)
	}
	return buttons
}

func (s *Shop) buildTools(tools *dom.Element) {
	doc := s.Doc
	toggles := []struct{ id, label string }{
		{"toggle-high-contrast", "고대비 모드"},
		{"toggle-large-text", "큰 글씨 모드"},
		{"toggle-focus-indicator", "포커스 강조 표시"},
		{"toggle-screen-reader-mode", "스크린 리더 최적화 모드"},
	}
	for _, t := range toggles {
		btn := doc.CreateElement("button")
		btn.SetAttribute("id", t.id)
		btn.SetAttribute("aria-pressed", "false")
		btn.SetAttribute("aria-label", t.label)
		btn.SetText(t.label)
		tools.AppendChild(btn)
	}
}

func (s *Shop) buildSearch(header *dom.Element) (btn, form, input *dom.Element) {
	doc := s.Doc

	btn = doc.CreateElement("button")
	btn.SetAttribute("id", "search")
	btn.SetAttribute("aria-expanded", "false")
	btn.SetAttribute("aria-label", "검색창 열기")
	btn.SetText("검색")
	header.AppendChild(btn)

	form = doc.CreateElement("form")
	form.SetAttribute("id", "search-form")
	form.SetAttribute("role", "search")
	form.SetAttribute("hidden", "")
	header.AppendChild(form)

	label := doc.CreateElement("label")
	label.SetAttribute("for", "search-input")
	label.SetText("상품 검색")
	form.AppendChild(label)

	input = doc.CreateElement("input")
	input.SetAttribute("id", "search-input")
	input.SetAttribute("type", "search")
	input.SetAttribute("aria-label", "상품 검색")
	input.SetAttribute("aria-describedby", "search-input-error")
	form.AppendChild(input)

	errEl := doc.CreateElement("div")
	errEl.SetAttribute("id", "search-input-error")
	errEl.SetAttribute("class", "error-message")
	form.AppendChild(errEl)

	submit := doc.CreateElement("button")
	submit.SetAttribute("type", "submit")
	submit.SetText("검색")
	form.AppendChild(submit)

	return btn, form, input
}

func (s *Shop) buildProductCard(p catalog.Product) *dom.Element {
	doc := s.Doc

	card := doc.CreateElement("article")
	card.SetAttribute("id", "product-"+strconv.Itoa(p.ID))
	card.SetAttribute("aria-label", p.Name)

	name := doc.CreateElement("h3")
	name.SetText(p.Name)
	card.AppendChild(name)

	card.AppendChild(s.buildGallery(p))

	price := doc.CreateElement("p")
	price.SetText(catalog.FormatPrice(p.Price) + "원")
	card.AppendChild(price)

	addBtn := doc.CreateElement("button")
	addBtn.SetAttribute("id", fmt.Sprintf("add-to-cart-%d", p.ID))
	if p.Stock <= 0 {
		addBtn.SetAttribute("aria-label", p.Name+" 품절")
		addBtn.SetText("품절")
	} else {
		addBtn.SetAttribute("aria-label", p.Name+" 장바구니에 담기")
		addBtn.SetText("장바구니 담기")
	}
	card.AppendChild(addBtn)

	wishBtn := doc.CreateElement("button")
	wishBtn.SetAttribute("id", fmt.Sprintf("wishlist-%d", p.ID))
	wishBtn.SetAttribute("aria-pressed", "false")
	wishBtn.SetAttribute("aria-label", p.Name+" 찜하기")
	card.AppendChild(wishBtn)
	s.State.RegisterWishlistButton(p.ID, wishBtn)

	return card
}

const galleryImageCount = 3

// buildGallery renders a card's main image plus its thumbnail buttons and
// registers the handles for ChangeProductImage.
func (s *Shop) buildGallery(p catalog.Product) *dom.Element {
	doc := s.Doc

	wrap := doc.CreateElement("div")
	wrap.SetAttribute("class", "product-gallery")

	main := doc.CreateElement("img")
	main.SetAttribute("id", fmt.Sprintf("product-image-%d", p.ID))
	main.SetAttribute("class", "product-image")
	main.SetAttribute("src", fmt.Sprintf("images/product-%d-1.jpg", p.ID))
	main.SetAttribute("alt", fmt.Sprintf("%s 이미지 1", p.Name))
	wrap.AppendChild(main)

	thumbs := make([]*dom.Element, 0, galleryImageCount)
	for i := 0; i < galleryImageCount; i++ {
		btn := doc.CreateElement("button")
		btn.SetAttribute("id", fmt.Sprintf("thumbnail-%d-%d", p.ID, i+1))
		btn.SetAttribute("class", "thumbnail-btn")
		btn.SetAttribute("aria-label", fmt.Sprintf("%s 이미지 %d번 보기", p.Name, i+1))
		btn.SetAttribute("aria-pressed", strconv.FormatBool(i == 0))
		if i == 0 {
			btn.AddClass("active")
		}
		img := doc.CreateElement("img")
		img.SetAttribute("src", fmt.Sprintf("images/product-%d-%d.jpg", p.ID, i+1))
		img.SetAttribute("alt", "")
		img.SetAttribute("aria-hidden", "true")
		btn.AppendChild(img)
		wrap.AppendChild(btn)
		thumbs = append(thumbs, btn)
	}

	s.galleries[p.ID] = productGallery{mainImage: main, thumbnails: thumbs}
	return wrap
}

func (s *Shop) buildLoginForm() *dom.Element {
	doc := s.Doc

	form := doc.CreateElement("form")
	form.SetAttribute("id", "login-form")
	form.SetAttribute("aria-label", "로그인")
	form.SetAttribute("novalidate", "")

	addField := func(id, typ, labelText string) *dom.Element {
		label := doc.CreateElement("label")
		label.SetAttribute("for", id)
		label.SetText(labelText)
		form.AppendChild(label)

		input := doc.CreateElement("input")
		input.SetAttribute("id", id)
		input.SetAttribute("type", typ)
		input.SetAttribute("value", "")
		input.SetAttribute("aria-describedby", id+"-error")
		form.AppendChild(input)

		errEl := doc.CreateElement("div")
		errEl.SetAttribute("id", id+"-error")
		errEl.SetAttribute("class", "error-message")
		form.AppendChild(errEl)
		return input
	}

	s.usernameInput = addField("username", "email", "이메일")
	s.passwordInput = addField("password", "password", "비밀번호")

	toggle := doc.CreateElement("button")
	toggle.SetAttribute("id", "password-toggle")
	toggle.SetAttribute("type", "button")
	toggle.SetAttribute("aria-pressed", "false")
	toggle.SetAttribute("aria-label", "비밀번호 보기")
	form.AppendChild(toggle)
	icon := doc.CreateElement("span")
	icon.SetAttribute("id", "password-toggle-icon")
	icon.SetAttribute("aria-hidden", "true")
	icon.SetText("👁️")
	toggle.AppendChild(icon)
	s.passwordToggle = toggle
	s.passwordIcon = icon

	submit := doc.CreateElement("button")
	submit.SetAttribute("id", "login-submit")
	submit.SetAttribute("type", "submit")
	submit.SetText("로그인")
	form.AppendChild(submit)

	return form
}

func (s *Shop) buildFooter() *dom.Element {
	doc := s.Doc

	footer := doc.CreateElement("footer")
	footer.SetAttribute("role", "contentinfo")

	links := []struct{ id, text string }{
		{"footer-terms", "이용약관"},
		{"footer-privacy", "개인정보처리방침"},
		{"footer-contact", "고객센터"},
		{"footer-a11y-policy", "접근성 정책"},
		{"footer-shipping", "배송 안내"},
		{"footer-returns", "교환/반품 안내"},
		{"footer-payment", "결제 안내"},
		{"footer-faq", "자주 묻는 질문"},
	}
	for _, l := range links {
		btn := doc.CreateElement("button")
		btn.SetAttribute("id", l.id)
		btn.SetText(l.text)
		footer.AppendChild(btn)
	}
	return footer
}
