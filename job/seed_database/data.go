package seed_database

import (
	"time"

	"mailer/entity"
	"mailer/pkg/goutil"
)

func newTemplate(name, subject, htmlContent string) *entity.Template {
	now := time.Now()
	return &entity.Template{
		Name:        goutil.String(name),
		Subject:     goutil.String(subject),
		HtmlContent: goutil.String(htmlContent),
		CreatedAt:   goutil.Time(now),
		UpdatedAt:   goutil.Time(now),
	}
}

func seedTemplates() []*entity.Template {
	return []*entity.Template{
		newTemplate("Welcome Email", "Welcome to Our Platform! 🎉", "<div>Welcome aboard!</div>"),
		newTemplate("Monthly Newsletter", "📰 Your Monthly Update", "<div>Monthly updates...</div>"),
		newTemplate("Password Reset", "Reset Your Password", "<div>Reset your password...</div>"),
		newTemplate("Order Confirmation", "Order Confirmed ✅", "<div>Order details...</div>"),
		newTemplate("Webinar Invitation", "🎯 Join Our Upcoming Webinar", "<div>Webinar details...</div>"),
	}
}

var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 14_7_1 like Mac OS X)",
	"Mozilla/5.0 (iPad; CPU OS 14_7_1 like Mac OS X)",
	"Mozilla/5.0 (Android 11; Mobile)",
}

var clickURLs = []string{
	"http://example.com/signup",
	"http://example.com/pricing",
	"http://example.com/features",
	"http://example.com/blog",
	"http://example.com/contact",
}

var (
	firstNames = []string{
		"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy",
		"karl", "laura", "mallory", "nina", "oscar", "peggy", "quinn", "rupert", "sybil", "trent",
	}
	lastNames = []string{
		"smith", "johnson", "lee", "brown", "garcia", "miller", "davis", "martin", "clark", "lewis",
		"walker", "hall", "young", "king", "wright", "scott", "green", "baker", "adams", "nelson",
	}
	domains = []string{"example.com", "example.org", "example.net", "mail.test", "inbox.test"}
)
