// Package holiday holds the fixed catalogue of Valentine's week days.
package holiday

// Entry is one day of the week of love.
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ColorTag    string `json:"color"`
	Icon        string `json:"icon"`
}

var entries = [...]Entry{
	{
		ID:          "rose-day",
		Name:        "Rose Day",
		Date:        "February 7",
		Description: "Share a rose to show respect and love. A single rose can say a thousand words.",
		ImageURL:    "https://cdn.pixabay.com/photo/2023/11/02/16/00/valentine-8360933_1280.jpg",
		ColorTag:    "rose",
		Icon:        "🌹",
	},
	{
		ID:          "propose-day",
		Name:        "Propose Day",
		Date:        "February 8",
		Description: "The perfect time to express your feelings and ask for a lifetime together.",
		ImageURL:    "https://cdn.pixabay.com/photo/2024/01/24/18/42/couple-8530182_1280.jpg",
		ColorTag:    "indigo",
		Icon:        "💍",
	},
	{
		ID:          "chocolate-day",
		Name:        "Chocolate Day",
		Date:        "February 9",
		Description: "Sweeten your relationship with delicious treats and heartfelt gratitude.",
		ImageURL:    "https://cdn.pixabay.com/photo/2023/12/13/17/54/chocolate-8447477_1280.jpg",
		ColorTag:    "amber",
		Icon:        "🍫",
	},
	{
		ID:          "teddy-day",
		Name:        "Teddy Day",
		Date:        "February 10",
		Description: "Gift a cuddly companion to remind them of your warm presence.",
		ImageURL:    "https://cdn.pixabay.com/photo/2023/08/11/17/41/teddy-bear-8184067_1280.png",
		ColorTag:    "orange",
		Icon:        "🧸",
	},
	{
		ID:          "promise-day",
		Name:        "Promise Day",
		Date:        "February 11",
		Description: "Commit to a future built on trust, honesty, and unwavering support.",
		ImageURL:    "https://cdn.pixabay.com/photo/2024/01/16/09/24/couple-8511726_1280.jpg",
		ColorTag:    "pink",
		Icon:        "🤝",
	},
	{
		ID:          "hug-day",
		Name:        "Hug Day",
		Date:        "February 12",
		Description: "Find comfort and warmth in a simple embrace that says everything.",
		ImageURL:    "https://cdn.pixabay.com/photo/2023/12/12/18/34/couple-8445733_1280.jpg",
		ColorTag:    "purple",
		Icon:        "🤗",
	},
	{
		ID:          "kiss-day",
		Name:        "Kiss Day",
		Date:        "February 13",
		Description: "Seal your bond with a moment of pure physical and emotional closeness.",
		ImageURL:    "https://cdn.pixabay.com/photo/2023/12/04/14/37/couple-8429598_1280.jpg",
		ColorTag:    "crimson",
		Icon:        "💋",
	},
	{
		ID:          "valentine-day",
		Name:        "Valentine's Day",
		Date:        "February 14",
		Description: "The ultimate celebration of love and companionship across the world.",
		ImageURL:    "https://cdn.pixabay.com/photo/2024/01/16/17/09/couple-8512613_1280.jpg",
		ColorTag:    "red",
		Icon:        "❤️",
	},
}

// All returns the eight days in calendar order. The slice is a copy.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries[:])
	return out
}

// ByID looks up a day by its id.
func ByID(id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the display names in calendar order.
func Names() []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
