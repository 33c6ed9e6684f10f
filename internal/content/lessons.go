// Package content holds the static educational material served by the API.
package content

// Lesson is one self-contained learning unit.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

var lessons = []Lesson{
	{
		ID:          "what-is-cryptocurrency",
		Title:       "What is Cryptocurrency?",
		Description: "Learn the basics of digital money and blockchain technology",
		Body: "Think of cryptocurrency as digital money that exists only on computers and the internet. " +
			"It is digital only, decentralized, secured by cryptography and can be sent anywhere in the " +
			"world in minutes. Bitcoin was the first; thousands of others now exist.",
	},
	{
		ID:          "understanding-bitcoin",
		Title:       "Understanding Bitcoin",
		Description: "Deep dive into the world's first cryptocurrency",
		Body: "Bitcoin is like digital gold, created in 2009 by Satoshi Nakamoto. Only 21 million bitcoins " +
			"will ever exist, which is why many people treat it as a long-term store of value. Transactions " +
			"move peer to peer without banks and are recorded on a public ledger.",
	},
	{
		ID:          "blockchain-for-beginners",
		Title:       "Blockchain for Beginners",
		Description: "The technology that powers all cryptocurrencies",
		Body: "A blockchain is a shared record book copied across thousands of computers. Transactions are " +
			"grouped into blocks, each block links to the previous one, and changing history would require " +
			"rewriting every copy at once. That is what makes the ledger trustworthy without a central authority.",
	},
	{
		ID:          "investment-risks",
		Title:       "Investment Risks",
		Description: "Understanding the risks before you invest",
		Body: "Crypto prices can swing wildly in hours. Never invest money you cannot afford to lose, watch " +
			"out for scams promising guaranteed returns, and remember that lost wallet keys usually mean lost " +
			"funds. Practicing with virtual cash first is exactly what this platform is for.",
	},
	{
		ID:          "investment-strategies",
		Title:       "Investment Strategies",
		Description: "Smart ways to approach cryptocurrency investing",
		Body: "Common approaches include dollar-cost averaging (buying a fixed amount on a schedule), " +
			"diversifying across several assets instead of one, and holding for the long term rather than " +
			"chasing daily moves. Whatever the strategy, decide it before you trade, not after.",
	},
}

// Lessons returns the full catalog in display order.
func Lessons() []Lesson {
	out := make([]Lesson, len(lessons))
	copy(out, lessons)
	return out
}

// LessonByID returns the lesson with the given id.
func LessonByID(id string) (Lesson, bool) {
	for _, l := range lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}
