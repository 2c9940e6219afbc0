// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Hosted Services - these keys locate the remote collaborators the client talks to.
const (
	CatalogAPIURL  = "catalog.api_url"
	AccountAPIURL  = "account.api_url"
	IdentityAPIURL = "identity.api_url"
)

// Feed Presentation - these keys govern the for-you feed composition.
const (
	FeedSuggestedLimit = "feed.suggested_limit"
)

// History Tracking - these keys configure the persistence of listening state.
const (
	HistorySaveOnListen = "history.save_on_listen"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Minimalist (Mini) Mode - these keys configure the specialized lightweight TUI.
const (
	MiniSearchLimit = "mini.search_limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUIListenOnEnter      = "tui.listen_on_enter"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowAuthors        = "tui.show_authors"
)

// Media Playback - these keys maintain the state and configuration for the external audio player.
const (
	Player                     = "player.default"
	PlayerSkipSeconds          = "player.skip_seconds"
	PlayerCompletionPercentage = "player.completion_percentage"
)

// Checkout - these keys configure the subscription upgrade flow.
const (
	CheckoutPriceID      = "checkout.price_id"
	CheckoutSuccessURL   = "checkout.success_url"
	CheckoutCancelURL    = "checkout.cancel_url"
	CheckoutPollInterval = "checkout.poll_interval_ms"
	CheckoutPollLimit    = "checkout.poll_limit"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
