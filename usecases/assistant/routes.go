package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"slackassistant/models"
)

const (
	helpPageKeyword = "help page"
	helpPageStatus  = "Searching help pages..."
	helpPageReply   = "Please check this help page: https://www.example.com/help-page-123"
)

// Route is one entry of the user message table; the first matching route wins
type Route struct {
	Name   string
	Match  func(event models.AssistantEvent) bool
	Handle Handler
}

func containsFold(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// KeywordRoute answers with a canned reply when the message contains keyword
func KeywordRoute(keyword, reply string) Route {
	return Route{
		Name: "keyword:" + keyword,
		Match: func(event models.AssistantEvent) bool {
			return containsFold(event.Text, keyword)
		},
		Handle: func(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
			return utils.Say(ctx, Text(reply))
		},
	}
}

func (u *AssistantUseCase) helpPageRoute() Route {
	return Route{
		Name: "help_page",
		Match: func(event models.AssistantEvent) bool {
			return containsFold(event.Text, helpPageKeyword)
		},
		Handle: func(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
			if err := utils.SetTitle(ctx, event.Text); err != nil {
				return err
			}
			if err := utils.SetStatus(ctx, helpPageStatus); err != nil {
				return err
			}
			if err := sleepContext(ctx, u.helpPageDelay); err != nil {
				return fmt.Errorf("help page lookup interrupted: %w", err)
			}
			return utils.Say(ctx, Text(helpPageReply))
		},
	}
}

// buildRoutes puts the built-in help page route first, then configured keywords in a stable order
func (u *AssistantUseCase) buildRoutes(keywordReplies map[string]string) []Route {
	keywords := make([]string, 0, len(keywordReplies))
	for keyword := range keywordReplies {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	routes := []Route{u.helpPageRoute()}
	for _, keyword := range keywords {
		routes = append(routes, KeywordRoute(keyword, keywordReplies[keyword]))
	}
	return routes
}

// matchRoute returns the first route matching the event
func (u *AssistantUseCase) matchRoute(event models.AssistantEvent) (Route, bool) {
	for _, route := range u.routes {
		if route.Match(event) {
			return route, true
		}
	}
	return Route{}, false
}
