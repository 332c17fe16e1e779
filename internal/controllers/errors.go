package controllers

import "errors"

var (
	// ErrProposalLimit is returned when a user already has the maximum
	// number of open propositions
	ErrProposalLimit = errors.New("proposal limit reached")

	// ErrAlreadyProposed is returned when a user proposes the same movie twice
	ErrAlreadyProposed = errors.New("movie already proposed")

	// ErrVoteLimit is returned when a user has spent all their votes
	ErrVoteLimit = errors.New("vote limit reached")

	// ErrAlreadyVoted is returned when a user votes twice for the same movie
	ErrAlreadyVoted = errors.New("already voted for this movie")

	// ErrNotProposed is returned when voting for a movie nobody proposed
	ErrNotProposed = errors.New("movie is not currently proposed")
)
