package handlers

import "net/http"

// redirector records the last navigation requested while handling a request.
type redirector struct {
	target string
}

func (n *redirector) Navigate(path string) {
	n.target = path
}

// redirect sends the client to the recorded target or to fallback if nothing was recorded.
func (n *redirector) redirect(w http.ResponseWriter, r *http.Request, fallback string) {
	target := n.target
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
