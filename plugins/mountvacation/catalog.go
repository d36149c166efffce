package mountvacation

// IDs below were verified against the live API. Places whose IDs are unknown
// are searched by coordinates instead.
var builtinMappings = []LocationMapping{
	{
		Type:        IDRegion,
		ID:          "911",
		Description: "Trentino-Alto Adige (Dolomites)",
		Names: []string{
			"madonna di campiglio", "campiglio", "val di sole", "val gardena", "selva di val gardena",
			"ortisei", "santa cristina", "alpe di siusi", "kronplatz", "plan de corones", "alta badia",
			"corvara", "la villa", "san cassiano", "canazei", "campitello", "moena", "predazzo",
			"cavalese", "tonale", "passo tonale", "san martino di castrozza", "folgaria", "andalo",
			"molveno", "pinzolo", "folgarida", "marilleva", "italy ski resort", "italy ski resorts",
			"italian ski resort", "italian ski resorts", "italy skiing", "italian skiing", "italy ski",
			"italian ski", "italian dolomites", "italy dolomites", "ski italy", "skiing italy",
			"ski in italy", "skiing in italy",
		},
	},
	{
		Type:        IDRegion,
		ID:          "914",
		Description: "Veneto",
		Names:       []string{"cortina d'ampezzo", "cortina", "arabba", "marmolada"},
	},
	{
		Type:        IDRegion,
		ID:          "904",
		Description: "Lombardy",
		Names:       []string{"livigno", "bormio", "ponte di legno"},
	},
	{
		Type:        IDRegion,
		ID:          "913",
		Description: "Valle d'Aosta",
		Names:       []string{"cervinia", "breuil-cervinia", "courmayeur", "la thuile", "pila"},
	},
	{
		Type:        IDRegion,
		ID:          "906",
		Description: "Piedmont",
		Names: []string{
			"sestriere", "bardonecchia", "sauze d'oulx", "claviere", "limone piemonte", "via lattea",
		},
	},
	{
		Type:        IDResort,
		ID:          "9233",
		Description: "Chamonix Mont Blanc",
		Names: []string{
			"chamonix", "chamonix mont blanc", "french alps", "france ski", "french ski", "france skiing",
			"french skiing", "ski france", "skiing france", "ski in france",
		},
	},
	{
		Type:        IDResort,
		ID:          "9236",
		Description: "Avoriaz",
		Names:       []string{"avoriaz"},
	},
}

var builtinGeoFallbacks = []GeoFallback{
	{Names: []string{"dolomites", "dolomiti", "alps"}, Latitude: 46.4102, Longitude: 11.8440, Radius: 50000, Description: "Dolomites"},
	{Names: []string{"italian alps"}, Latitude: 46.4102, Longitude: 11.8440, Radius: 60000, Description: "Italian Alps"},
	{Names: []string{"trentino"}, Latitude: 46.0664, Longitude: 11.1257, Radius: 40000, Description: "Trento area"},
	{Names: []string{"alto adige", "south tyrol"}, Latitude: 46.4982, Longitude: 11.3548, Radius: 40000, Description: "Bolzano area"},
	{Names: []string{"austrian alps"}, Latitude: 47.2692, Longitude: 11.4041, Radius: 60000, Description: "Austrian Alps"},
	{Names: []string{"austria", "austria ski", "austrian ski", "austria skiing", "austrian skiing", "ski austria", "skiing austria", "ski in austria"}, Latitude: 47.2692, Longitude: 11.4041, Radius: 50000, Description: "Innsbruck area"},
	{Names: []string{"swiss alps"}, Latitude: 46.8182, Longitude: 8.2275, Radius: 60000, Description: "Swiss Alps"},
	{Names: []string{"switzerland", "switzerland ski", "swiss ski", "switzerland skiing", "swiss skiing", "ski switzerland", "skiing switzerland", "ski in switzerland"}, Latitude: 46.8182, Longitude: 8.2275, Radius: 50000, Description: "Central Switzerland"},
	{Names: []string{"europe ski", "european ski resorts", "europe skiing", "european alps", "mountain vacation europe", "ski vacation europe"}, Latitude: 46.4102, Longitude: 11.8440, Radius: 80000, Description: "European Alps"},
	{Names: []string{"val d'isere", "val d'isère"}, Latitude: 45.4486, Longitude: 6.9786, Radius: 8000, Description: "Val d'Isère"},
	{Names: []string{"tignes"}, Latitude: 45.4669, Longitude: 6.9062, Radius: 8000, Description: "Tignes"},
	{Names: []string{"les arcs"}, Latitude: 45.5707, Longitude: 6.8125, Radius: 8000, Description: "Les Arcs"},
	{Names: []string{"la plagne"}, Latitude: 45.5133, Longitude: 6.6778, Radius: 8000, Description: "La Plagne"},
	{Names: []string{"courchevel"}, Latitude: 45.4167, Longitude: 6.6333, Radius: 8000, Description: "Courchevel"},
	{Names: []string{"meribel", "méribel"}, Latitude: 45.3833, Longitude: 6.5667, Radius: 8000, Description: "Méribel"},
	{Names: []string{"val thorens"}, Latitude: 45.2983, Longitude: 6.5797, Radius: 8000, Description: "Val Thorens"},
	{Names: []string{"les menuires"}, Latitude: 45.3167, Longitude: 6.5333, Radius: 8000, Description: "Les Menuires"},
	{Names: []string{"alpe d'huez"}, Latitude: 45.0906, Longitude: 6.0678, Radius: 8000, Description: "Alpe d'Huez"},
	{Names: []string{"les deux alpes"}, Latitude: 45.0133, Longitude: 6.1233, Radius: 8000, Description: "Les Deux Alpes"},
	{Names: []string{"serre chevalier"}, Latitude: 44.9417, Longitude: 6.5500, Radius: 8000, Description: "Serre Chevalier"},
	{Names: []string{"les trois vallees", "les trois vallées"}, Latitude: 45.3333, Longitude: 6.6000, Radius: 12000, Description: "Les 3 Vallées"},
	{Names: []string{"paradiski"}, Latitude: 45.5420, Longitude: 6.7450, Radius: 12000, Description: "Paradiski"},
	{Names: []string{"espace killy"}, Latitude: 45.4577, Longitude: 6.9423, Radius: 12000, Description: "Espace Killy"},
	{Names: []string{"innsbruck"}, Latitude: 47.2692, Longitude: 11.4041, Radius: 15000, Description: "Innsbruck"},
	{Names: []string{"kitzbuhel", "kitzbühel"}, Latitude: 47.4467, Longitude: 12.3914, Radius: 10000, Description: "Kitzbühel"},
	{Names: []string{"st anton", "st. anton am arlberg"}, Latitude: 47.1275, Longitude: 10.2606, Radius: 10000, Description: "St. Anton am Arlberg"},
	{Names: []string{"zell am see"}, Latitude: 47.3254, Longitude: 12.7941, Radius: 10000, Description: "Zell am See"},
	{Names: []string{"kaprun"}, Latitude: 47.2697, Longitude: 12.7558, Radius: 10000, Description: "Kaprun"},
	{Names: []string{"saalbach", "hinterglemm"}, Latitude: 47.3889, Longitude: 12.6347, Radius: 10000, Description: "Saalbach Hinterglemm"},
	{Names: []string{"bad gastein"}, Latitude: 47.1156, Longitude: 13.1344, Radius: 10000, Description: "Bad Gastein"},
	{Names: []string{"schladming"}, Latitude: 47.3928, Longitude: 13.6872, Radius: 10000, Description: "Schladming"},
	{Names: []string{"zermatt"}, Latitude: 46.0207, Longitude: 7.7491, Radius: 10000, Description: "Zermatt"},
	{Names: []string{"st moritz"}, Latitude: 46.4908, Longitude: 9.8355, Radius: 10000, Description: "St. Moritz"},
	{Names: []string{"davos"}, Latitude: 46.8043, Longitude: 9.8307, Radius: 10000, Description: "Davos"},
	{Names: []string{"klosters"}, Latitude: 46.8781, Longitude: 9.8775, Radius: 10000, Description: "Klosters"},
	{Names: []string{"verbier"}, Latitude: 46.0964, Longitude: 7.2281, Radius: 10000, Description: "Verbier"},
	{Names: []string{"crans montana"}, Latitude: 46.3111, Longitude: 7.4850, Radius: 10000, Description: "Crans-Montana"},
	{Names: []string{"saas fee"}, Latitude: 46.1097, Longitude: 7.9286, Radius: 10000, Description: "Saas-Fee"},
	{Names: []string{"grindelwald"}, Latitude: 46.6244, Longitude: 8.0411, Radius: 10000, Description: "Grindelwald"},
	{Names: []string{"wengen"}, Latitude: 46.6081, Longitude: 7.9219, Radius: 10000, Description: "Wengen"},
	{Names: []string{"murren", "mürren"}, Latitude: 46.5581, Longitude: 7.8919, Radius: 10000, Description: "Mürren"},
}

var defaultLocations = NewLocationTable(builtinMappings, builtinGeoFallbacks)

// DefaultLocations returns the built-in table of known ski destinations.
func DefaultLocations() *LocationTable {
	return defaultLocations
}
