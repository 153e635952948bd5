package site

var (
	AboutMe = `I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes.
	Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's exploring a
	different language, experimenting with tools, or solving tricky problems.
	When I'm not coding, you'll usually find me training Muay Thai, shooting pool with friends,
	or chasing down a new challenge outside the screen.`

	ContactIntro = `Have a project in mind, a question about the course, or just want to say hi?
	Send me a message and I'll get back to you as soon as I can.`

	ThankYou = `Thanks for reaching out! Your message is on its way and I usually reply within two business days.`

	CookiePolicy = []PolicySection{
		{
			Heading: "What cookies are",
			Body: `Cookies are small text files a website stores in your browser. They help a site remember
			things between page loads.`,
		},
		{
			Heading: "Cookies this site uses",
			Body: `This site does not set tracking or advertising cookies. Pages are rendered on the server and
			the contact form keeps its state only for as long as the page is open.`,
		},
		{
			Heading: "Server logs",
			Body: `Requests are logged for operating the site. IP addresses are hashed before they are written
			and are never logged when your browser sends a Do Not Track header.`,
		},
		{
			Heading: "Third parties",
			Body: `Scripts for page interactions are loaded from a public CDN, which may see your IP address
			as part of delivering the file.`,
		},
		{
			Heading: "Questions",
			Body: `If you have questions about this policy, use the contact form and I'll answer them.`,
		},
	}
)

// PolicySection is one heading and paragraph of the cookie policy.
type PolicySection struct {
	Heading string
	Body    string
}
