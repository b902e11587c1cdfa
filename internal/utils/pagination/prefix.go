package pagination

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePrefix turns a literal prefix into a LIKE pattern for use with ESCAPE '\'.
func LikePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
