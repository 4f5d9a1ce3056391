package rest

import "net/http"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Health        *HealthHandler
	Stories       *StoriesHandler
	Editor        *EditorHandler
	Characters    *CharactersHandler
	Notes         *NotesHandler
	Stats         *StatsHandler
	Profile       *ProfileHandler
	Uploads       *UploadsHandler
	Notifications *NotificationsHandler
	// UploadsDir, when set, is served read-only under /uploads/.
	UploadsDir string
}

// NewRouter mounts every route on a fresh mux. Authentication is enforced by
// middleware outside the router; handlers still check for a user in context.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)

	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /auth/logout", h.Auth.Logout)

	mux.HandleFunc("GET /api/stories", h.Stories.List)
	mux.HandleFunc("POST /api/stories", h.Stories.Create)
	mux.HandleFunc("GET /api/stories/{storyID}", h.Stories.Get)
	mux.HandleFunc("PATCH /api/stories/{storyID}", h.Stories.Update)
	mux.HandleFunc("DELETE /api/stories/{storyID}", h.Stories.Delete)

	mux.HandleFunc("POST /api/stories/{storyID}/chapters", h.Stories.CreateChapter)
	mux.HandleFunc("PATCH /api/stories/{storyID}/chapters/{chapterID}", h.Stories.UpdateChapter)
	mux.HandleFunc("DELETE /api/stories/{storyID}/chapters/{chapterID}", h.Stories.DeleteChapter)

	mux.HandleFunc("POST /api/stories/{storyID}/chapters/{chapterID}/editor", h.Editor.Open)
	mux.HandleFunc("GET /api/stories/{storyID}/chapters/{chapterID}/editor", h.Editor.State)
	mux.HandleFunc("DELETE /api/stories/{storyID}/chapters/{chapterID}/editor", h.Editor.Close)
	mux.HandleFunc("PUT /api/stories/{storyID}/chapters/{chapterID}/editor/content", h.Editor.Type)
	mux.HandleFunc("PUT /api/stories/{storyID}/chapters/{chapterID}/editor/title", h.Editor.SetTitle)
	mux.HandleFunc("PUT /api/stories/{storyID}/chapters/{chapterID}/editor/status", h.Editor.SetStatus)
	mux.HandleFunc("POST /api/stories/{storyID}/chapters/{chapterID}/editor/save", h.Editor.Save)

	mux.HandleFunc("POST /api/stories/{storyID}/cover", h.Uploads.UploadCover)
	mux.HandleFunc("DELETE /api/stories/{storyID}/characters/{characterID}", h.Characters.Unlink)

	mux.HandleFunc("GET /api/characters", h.Characters.List)
	mux.HandleFunc("POST /api/characters", h.Characters.Create)
	mux.HandleFunc("PATCH /api/characters/{characterID}", h.Characters.Update)
	mux.HandleFunc("DELETE /api/characters/{characterID}", h.Characters.Delete)

	mux.HandleFunc("GET /api/notes", h.Notes.List)
	mux.HandleFunc("POST /api/notes", h.Notes.Create)
	mux.HandleFunc("PATCH /api/notes/{noteID}", h.Notes.Update)
	mux.HandleFunc("DELETE /api/notes/{noteID}", h.Notes.Delete)

	mux.HandleFunc("GET /api/stats", h.Stats.Get)
	mux.HandleFunc("GET /api/notifications", h.Notifications.List)

	mux.HandleFunc("GET /api/profile", h.Profile.Get)
	mux.HandleFunc("PATCH /api/profile", h.Profile.Update)

	if h.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadsDir))))
	}

	return mux
}
