package domain

// DefaultCatalog returns the bundled product selection used until a local
// cache or remote snapshot takes over.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Klawiatura Custom 60%",
			Price:       899.99,
			Description: "Kompaktowy design, hot-swap, aluminiowa obudowa.",
			Category:    "Klawiatury",
			Icon:        "⌨️",
			Image:       "https://images.unsplash.com/photo-1595225476474-87563907a212?q=80&w=800&auto=format&fit=crop",
		},
		{
			ID:          2,
			Name:        "Myszka E-Sports Pro V2",
			Price:       349.00,
			Description: "Ultralekka (55g), sensor PAW3395, 4000Hz Polling Rate.",
			Category:    "Myszki",
			Icon:        "🖱️",
			Image:       "https://images.unsplash.com/photo-1527814050087-3793815479db?q=80&w=800&auto=format&fit=crop",
		},
		{
			ID:          3,
			Name:        "Gateron Yellow Switches (x90)",
			Price:       129.50,
			Description: "Liniowe, 50g siły nacisku, fabrycznie lubrykowane.",
			Category:    "Switche",
			Icon:        "⚙️",
			Image:       "https://images.unsplash.com/photo-1618384887929-16ec33fab9ef?q=80&w=800&auto=format&fit=crop",
		},
		{
			ID:          4,
			Name:        "Keycapy PBT Doubleshot 'Aqua'",
			Price:       199.90,
			Description: "Profil Cherry, PBT, trwałe nadruki w kolorze Soft Cyan.",
			Category:    "Keycapy",
			Icon:        "🧢",
			Image:       "https://images.unsplash.com/photo-1626218174358-77b7f9a46058?q=80&w=800&auto=format&fit=crop",
		},
		{
			ID:          5,
			Name:        "Podkładka Control XL",
			Price:       159.99,
			Description: "Tekstura control, rozmiar 900x400mm, antypoślizgowa podstawa.",
			Category:    "Akcesoria",
			Icon:        "📐",
			Image:       "https://images.unsplash.com/photo-1615663245857-ac93bb7c39e7?q=80&w=800&auto=format&fit=crop",
		},
		{
			ID:          6,
			Name:        "Kabel Coiled Aviator V2",
			Price:       149.00,
			Description: "Podwójny oplot, złącze typu Aviator, kolor Electric Pink.",
			Category:    "Akcesoria",
			Icon:        "🔌",
			Image:       "https://images.unsplash.com/photo-1563191911-e65f8655ebf9?q=80&w=800&auto=format&fit=crop",
		},
	}
}

// DefaultPageContent returns the compiled-in content settings.
func DefaultPageContent() PageContent {
	return PageContent{
		HeroTitle:       "PRECYZJA W KAŻDYM KLIKU",
		HeroSubtitle:    "TWÓJ EKWIPUNEK, TWOJE ZASADY.",
		HeroDescription: "Odkryj sprzęt klasy turniejowej i ekosystem części do pełnej personalizacji. Myszki, Klawiatury, Switche, Keycapy – wyselekcjonowane przez profesjonalistów.",
		HeroBgUrl:       "https://img.freepik.com/free-vector/abstract-realistic-technology-particle-background_52683-33064.jpg?semt=ais_hybrid&w=740&q=80",
		ProductsTitle:   "🔥 SELEKCJA CLICK HOUSE: READY TO SHIP",
		CustomTitle:     "⚙️ MODYFIKUJ BEZ OGRANICZEŃ",
		CustomBgUrl:     "https://images.unsplash.com/photo-1555680202-c86f0e12f086?q=80&w=2070&auto=format&fit=crop",
		AboutTitle:      "NIE JESTEŚMY KOLEJNYM MARKETEM. JESTEŚMY EKSPERTAMI.",
		AboutBgUrl:      "https://images.unsplash.com/photo-1542751371-adc38448a05e?q=80&w=2070&auto=format&fit=crop",
		ContactTitle:    "📞 WESPRZYJ SIĘ WIEDZĄ EKSPERTA",
		ContactBgUrl:    "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?q=80&w=2070&auto=format&fit=crop",
	}
}
