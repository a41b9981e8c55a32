package alerts

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/coah80/docxify/internal/config"
)

const (
	colorOrange = 0xFFA500
	colorRed    = 0xFF4444
	colorGreen  = 0x2ECC71
)

type executeFunc func(webhookID, token string, params *discordgo.WebhookParams) error

// Notifier posts embeds to a Discord webhook. A Notifier built without a
// webhook URL silently drops everything.
type Notifier struct {
	webhookID string
	token     string
	pingUser  string
	execute   executeFunc

	mu                sync.Mutex
	categoryCooldowns map[string]time.Time
	now               func() time.Time
	async             bool
}

func New(cfg config.Config) *Notifier {
	n := &Notifier{
		pingUser:          cfg.DiscordPingUserID,
		categoryCooldowns: make(map[string]time.Time),
		now:               time.Now,
		async:             true,
	}
	if !cfg.DiscordAlerts() {
		return n
	}

	id, token, err := ParseWebhookURL(cfg.DiscordWebhookURL)
	if err != nil {
		log.Printf("[Alerts] Disabled: %v", err)
		return n
	}
	s, err := discordgo.New("")
	if err != nil {
		log.Printf("[Alerts] Disabled: %v", err)
		return n
	}

	n.webhookID = id
	n.token = token
	n.execute = func(webhookID, token string, params *discordgo.WebhookParams) error {
		_, err := s.WebhookExecute(webhookID, token, false, params)
		return err
	}
	return n
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.execute != nil
}

// ParseWebhookURL splits https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid webhook URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook URL has no id/token: %s", u.Path)
}

func (n *Notifier) send(category string, cooldown time.Duration, ping bool, color int, title, description string, fields map[string]string) {
	if !n.Enabled() {
		return
	}

	n.mu.Lock()
	now := n.now()
	if cooldown > 0 {
		if last, ok := n.categoryCooldowns[category]; ok && now.Sub(last) < cooldown {
			n.mu.Unlock()
			return
		}
	}
	n.categoryCooldowns[category] = now
	n.mu.Unlock()

	var embedFields []*discordgo.MessageEmbedField
	for k, v := range fields {
		if v == "" {
			continue
		}
		embedFields = append(embedFields, &discordgo.MessageEmbedField{Name: k, Value: truncate(v, 1024), Inline: true})
	}

	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       title,
			Description: truncate(description, 2048),
			Color:       color,
			Fields:      embedFields,
			Timestamp:   now.UTC().Format(time.RFC3339),
			Footer:      &discordgo.MessageEmbedFooter{Text: "docxify " + config.Version},
		}},
	}
	if ping && n.pingUser != "" {
		params.Content = fmt.Sprintf("<@%s>", n.pingUser)
	}

	post := func() {
		if err := n.execute(n.webhookID, n.token, params); err != nil {
			log.Printf("[Alerts] send failed: %v", err)
		}
	}
	if n.async {
		go post()
		return
	}
	post()
}

func (n *Notifier) ServerStarted(addr string) {
	n.send("server-start", 0, false, colorGreen, "Server Started", fmt.Sprintf("docxify %s listening on %s", config.Version, addr), nil)
}

func (n *Notifier) ServerStopping() {
	n.send("server-stop", 0, false, colorOrange, "Server Stopping", "docxify is shutting down", nil)
}

func (n *Notifier) ConversionFailed(filename string, err error) {
	n.send("conversion", 5*time.Second, true, colorRed, "Conversion Failed", err.Error(), map[string]string{
		"File":  truncate(filename, 200),
		"Error": truncate(err.Error(), 500),
	})
}

func (n *Notifier) LowDiskSpace(availGB, minGB float64) {
	n.send("disk", 10*time.Minute, true, colorOrange, "Low Disk Space",
		fmt.Sprintf("%.1fGB free, below %.1fGB threshold", availGB, minGB), nil)
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
