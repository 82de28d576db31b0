package catalog

// defaultProducts is the standing weekend assortment used when no
// products file is configured.
var defaultProducts = []Product{
	{
		ID:          "chleb-kvaskovy",
		Name:        "Kváskový chléb",
		Description: "Pšenično-žitný chléb z vlastního kvásku, pečený na kameni.",
		Price:       95,
		Weight:      "850g",
		Image:       "/images/chleb-kvaskovy.jpg",
		Category:    CategoryChleby,
		Allergens:   []int{1},
		Available:   true,
	},
	{
		ID:          "chleb-spaldovy",
		Name:        "Špaldový chléb",
		Description: "Celozrnný špaldový chléb se slunečnicovými semínky.",
		Price:       110,
		Weight:      "750g",
		Image:       "/images/chleb-spaldovy.jpg",
		Category:    CategoryChleby,
		Allergens:   []int{1, 11},
		Available:   true,
	},
	{
		ID:          "rohlik-maslovy",
		Name:        "Máslový rohlík",
		Description: "Ručně točený rohlík z máslového těsta.",
		Price:       14,
		Weight:      "60g",
		Image:       "/images/rohlik-maslovy.jpg",
		Category:    CategoryPecivo,
		Allergens:   []int{1, 7},
		Available:   true,
	},
	{
		ID:          "kolac-tvarohovy",
		Name:        "Tvarohový koláč",
		Description: "Moravský koláč s tvarohem a drobenkou.",
		Price:       32,
		Weight:      "110g",
		Image:       "/images/kolac-tvarohovy.jpg",
		Category:    CategorySladke,
		Allergens:   []int{1, 3, 7},
		Available:   true,
	},
	{
		ID:          "kynuty-zavin",
		Name:        "Kynutý závin s mákem",
		Description: "Tradiční makový závin z kynutého těsta.",
		Price:       145,
		Weight:      "500g",
		Image:       "/images/kynuty-zavin.jpg",
		Category:    CategorySladke,
		Allergens:   []int{1, 3, 7},
		Available:   true,
	},
	{
		ID:          "pletynka-syrova",
		Name:        "Sýrová pletýnka",
		Description: "Pletýnka sypaná sýrem a kmínem.",
		Price:       24,
		Weight:      "80g",
		Image:       "/images/pletynka-syrova.jpg",
		Category:    CategorySlane,
		Allergens:   []int{1, 7},
		Available:   true,
	},
}
