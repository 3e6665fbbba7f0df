package datagen

import "github.com/ssargent/datagen/pkg/model"

var firstNames = []string{
	"Ada", "Alan", "Barbara", "Claude", "Dennis", "Edsger", "Frances", "Grace",
	"Hedy", "Ivan", "Jean", "Ken", "Linus", "Margaret", "Niklaus", "Radia",
	"Rob", "Sophie", "Tim", "Whitfield", "Zoë", "José", "Mei", "Olu",
}

var lastNames = []string{
	"Lovelace", "Turing", "Liskov", "Shannon", "Ritchie", "Dijkstra", "Allen",
	"Hopper", "Lamarr", "Sutherland", "Sammet", "Thompson", "Torvalds",
	"Hamilton", "Wirth", "Perlman", "Pike", "Wilson", "Berners-Lee", "Diffie",
	"O'Neil", "García", "Chen", "Adeyemi",
}

var emailDomains = []string{
	"example.com", "example.org", "example.net", "mail.test", "corp.invalid",
}

var merchantAdjectives = []string{
	"Blue", "Corner", "Golden", "Harbor", "Main Street", "North", "Old Town",
	"Prairie", "Riverside", "Summit", "Union", "Westside",
}

type merchantProfile struct {
	mccs  []uint32
	nouns []string
}

// Representative MCCs per category
var merchantProfiles = map[model.MerchantCategory]merchantProfile{
	model.CategoryAgricultural: {
		mccs:  []uint32{742, 763, 780},
		nouns: []string{"Veterinary Clinic", "Farm Co-op", "Landscaping"},
	},
	model.CategoryContracted: {
		mccs:  []uint32{1520, 1711, 1731},
		nouns: []string{"Builders", "Plumbing & Heating", "Electric"},
	},
	model.CategoryTravelAndEntertainment: {
		mccs:  []uint32{5812, 5813, 7832},
		nouns: []string{"Diner", "Tavern", "Cinema"},
	},
	model.CategoryCarRental: {
		mccs:  []uint32{3351, 3357, 7512},
		nouns: []string{"Car Rental", "Auto Hire", "Rent-a-Car"},
	},
	model.CategoryLodging: {
		mccs:  []uint32{3501, 3502, 7011},
		nouns: []string{"Inn", "Hotel", "Suites"},
	},
	model.CategoryTransportation: {
		mccs:  []uint32{4111, 4121, 4511},
		nouns: []string{"Transit", "Taxi", "Airways"},
	},
	model.CategoryUtility: {
		mccs:  []uint32{4814, 4899, 4900},
		nouns: []string{"Telecom", "Cable", "Power & Water"},
	},
	model.CategoryRetailOutlet: {
		mccs:  []uint32{5311, 5411, 5912},
		nouns: []string{"Department Store", "Grocery", "Pharmacy"},
	},
	model.CategoryClothingStore: {
		mccs:  []uint32{5651, 5661, 5691},
		nouns: []string{"Outfitters", "Shoes", "Apparel"},
	},
	model.CategoryMiscStore: {
		mccs:  []uint32{5942, 5945, 5999},
		nouns: []string{"Books", "Toys & Games", "General Store"},
	},
	model.CategoryBusiness: {
		mccs:  []uint32{7311, 7372, 7399},
		nouns: []string{"Advertising", "Software", "Business Services"},
	},
	model.CategoryProfessionalOrMembership: {
		mccs:  []uint32{8011, 8111, 8641},
		nouns: []string{"Medical Group", "Law Offices", "Civic Association"},
	},
	model.CategoryGovernment: {
		mccs:  []uint32{9211, 9222, 9311},
		nouns: []string{"County Court", "City Fines", "Tax Office"},
	},
}
