package interviews

import "math/rand"

// interviewCovers are the static cover assets served by the frontend.
var interviewCovers = []string{
	"/adobe.png",
	"/amazon.png",
	"/facebook.png",
	"/hostinger.png",
	"/pinterest.png",
	"/quora.png",
	"/reddit.png",
	"/skype.png",
	"/spotify.png",
	"/telegram.png",
	"/tiktok.png",
	"/yahoo.png",
}

// randomCover picks a cover image path for a new interview.
func randomCover(r *rand.Rand) string {
	if len(interviewCovers) == 0 {
		return "/covers/default.png"
	}
	return "/covers" + interviewCovers[r.Intn(len(interviewCovers))]
}
