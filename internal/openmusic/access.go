package openmusic

import (
	"context"
)

// verifyPlaylistOwner fetches the playlist and checks strict ownership.
// Absent playlist is NotFound; owner mismatch is Authorization. Collaborators
// are never consulted here: destructive operations (delete playlist, manage
// collaborations, export) are owner-only.
func (s *Server) verifyPlaylistOwner(ctx context.Context, playlistID, userID string) (*Playlist, error) {
	pl, err := s.store.GetPlaylistByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if pl.Username != userID {
		return nil, errAuthorization("you are not authorized to access this resource")
	}
	return pl, nil
}

// verifyPlaylistAccess grants access to the owner or a registered
// collaborator. NotFound from the playlist fetch is definitive and
// short-circuits before any collaborator lookup. On an ownership mismatch
// the collaboration table is consulted once; unless that lookup positively
// confirms a collaborator, the ownership Authorization error is returned
// and the collaborator-check failure reason is discarded, so the caller
// sees one uniform message regardless of why the fallback failed.
func (s *Server) verifyPlaylistAccess(ctx context.Context, playlistID, userID string) (*Playlist, error) {
	pl, err := s.store.GetPlaylistByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if pl.Username == userID {
		return pl, nil
	}

	ok, collabErr := s.store.IsCollaborator(ctx, playlistID, userID)
	if collabErr == nil && ok {
		return pl, nil
	}
	return nil, errAuthorization("you are not authorized to access this resource")
}
