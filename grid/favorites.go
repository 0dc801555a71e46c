package grid

// FavoriteStore is an in-memory FavoriteProvider with change fan-out.
// Intended for UI-thread use; persistence is the application's concern.
type FavoriteStore struct {
	favorites map[string]struct{}
	listeners map[int]func(id string, favorite bool)
	nextToken int
}

var _ FavoriteProvider = (*FavoriteStore)(nil)

func NewFavoriteStore() *FavoriteStore {
	return &FavoriteStore{
		favorites: make(map[string]struct{}),
		listeners: make(map[int]func(id string, favorite bool)),
	}
}

func (s *FavoriteStore) IsFavorite(id string) bool {
	_, ok := s.favorites[id]
	return ok
}

// SetFavorite flips the flag and notifies listeners when it actually
// changed.
func (s *FavoriteStore) SetFavorite(id string, favorite bool) {
	if favorite == s.IsFavorite(id) {
		return
	}
	if favorite {
		s.favorites[id] = struct{}{}
	} else {
		delete(s.favorites, id)
	}
	for _, fn := range s.listeners {
		fn(id, favorite)
	}
}

// Toggle flips the favorite flag and returns the new state.
func (s *FavoriteStore) Toggle(id string) bool {
	next := !s.IsFavorite(id)
	s.SetFavorite(id, next)
	return next
}

// Favorites returns the favorite identifiers, unordered.
func (s *FavoriteStore) Favorites() []string {
	out := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		out = append(out, id)
	}
	return out
}

func (s *FavoriteStore) OnChange(fn func(id string, favorite bool)) (remove func()) {
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = fn
	return func() {
		delete(s.listeners, token)
	}
}
