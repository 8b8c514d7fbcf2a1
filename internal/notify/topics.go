package notify

import "fmt"

// Topic shapes are scoped by society and/or member identity so that a
// subscriber only ever sees its own tenant's changes.

// TopicSocietyLogs carries fee log changes visible to every member of
// the society.
func TopicSocietyLogs(societyID uint) string {
	return fmt.Sprintf("member:log|society(%d)", societyID)
}

// TopicMemberFines carries fine and refinement-fee logs targeted at a
// single member.
func TopicMemberFines(memberID uint) string {
	return fmt.Sprintf("member:log:fine|member(%d)", memberID)
}

// TopicMemberTracks carries payment status changes of one member's
// tracks.
func TopicMemberTracks(societyID, memberID uint) string {
	return fmt.Sprintf("member:log:track|society(%d)&member(%d)", societyID, memberID)
}

// TopicSocietyMembers carries roster changes of the society.
func TopicSocietyMembers(societyID uint) string {
	return fmt.Sprintf("member:members|society(%d)", societyID)
}
