package workspace

// Wire types of the upstream bookings API.  Only the fields the dashboard
// reads are declared.

type jobPage struct {
	Items []job `json:"items"`
	Meta  struct {
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

type job struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Name         string             `json:"name"`
	JobTypeName  string             `json:"jobTypeName"`
	Stage        string             `json:"stage"`
	EventDate    string             `json:"eventDate"`
	GuestCount   int                `json:"guestCount"`
	CustomFields []customFieldValue `json:"customFields"`
	Links        struct {
		Self struct {
			ManagerHref string `json:"managerHref"`
		} `json:"self"`
	} `json:"links"`
}

type customFieldValue struct {
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

type jobRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type customFieldDef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type eventDetails struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  *struct {
		Address *address `json:"address"`
	} `json:"location"`
}

type address struct {
	Name          string `json:"name"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
}

type jobContact struct {
	ContactID string   `json:"contactId"`
	JobRoles  []string `json:"jobRoles"`
}

type phone struct {
	Formatted string `json:"formatted"`
}

type contact struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	CellPhone *phone `json:"cellPhone"`
	HomePhone *phone `json:"homePhone"`
}

type order struct {
	Status    string     `json:"status"`
	LineItems []lineItem `json:"lineItems"`
}

// lineItem prices are in cents.  Selected is nil when upstream omits it,
// which counts as selected.
type lineItem struct {
	Name         string  `json:"name"`
	Selected     *bool   `json:"selected"`
	Units        float64 `json:"units"`
	PricePerUnit float64 `json:"pricePerUnit"`
}
