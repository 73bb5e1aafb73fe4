// Package dimensions holds the read-only platform dimension table: pixel
// sizes and aspect ratios per platform and content type, used when a brief's
// platform changes.
package dimensions

import "github.com/solheim/briefd/internal/infer"

// Spec is the render target for one platform/content combination.
type Spec struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Label       string `json:"label"`
	AspectRatio string `json:"aspect_ratio"`
}

type key struct {
	platform infer.Platform
	content  infer.ContentType
}

var byContent = map[key]Spec{
	{infer.PlatformInstagram, infer.ContentPost}:     {1080, 1350, "Instagram Post", "4:5"},
	{infer.PlatformInstagram, infer.ContentStory}:    {1080, 1920, "Instagram Story", "9:16"},
	{infer.PlatformInstagram, infer.ContentReel}:     {1080, 1920, "Instagram Reel", "9:16"},
	{infer.PlatformInstagram, infer.ContentCarousel}: {1080, 1350, "Instagram Carousel", "4:5"},
	{infer.PlatformLinkedIn, infer.ContentPost}:      {1200, 1350, "LinkedIn Post", "8:9"},
	{infer.PlatformLinkedIn, infer.ContentBanner}:    {1584, 396, "LinkedIn Banner", "4:1"},
	{infer.PlatformFacebook, infer.ContentPost}:      {1200, 630, "Facebook Post", "1.91:1"},
	{infer.PlatformFacebook, infer.ContentStory}:     {1080, 1920, "Facebook Story", "9:16"},
	{infer.PlatformFacebook, infer.ContentAd}:        {1080, 1080, "Facebook Ad", "1:1"},
	{infer.PlatformTwitter, infer.ContentPost}:       {1600, 900, "Twitter Post", "16:9"},
	{infer.PlatformYouTube, infer.ContentThumbnail}:  {1280, 720, "YouTube Thumbnail", "16:9"},
	{infer.PlatformYouTube, infer.ContentVideo}:      {1920, 1080, "YouTube Video", "16:9"},
	{infer.PlatformTikTok, infer.ContentVideo}:       {1080, 1920, "TikTok Video", "9:16"},
	{infer.PlatformPrint, infer.ContentFlyer}:        {2480, 3508, "A4 Flyer", "1:1.41"},
	{infer.PlatformPrint, infer.ContentPoster}:       {3508, 4961, "A2 Poster", "1:1.41"},
	{infer.PlatformWeb, infer.ContentBanner}:         {1920, 600, "Web Hero Banner", "16:5"},
	{infer.PlatformEmail, infer.ContentBanner}:       {600, 200, "Email Header", "3:1"},
	{infer.PlatformPresentation, infer.ContentSlide}: {1920, 1080, "Presentation Slide", "16:9"},
}

// Per-platform fallbacks when the content type is unknown or has no entry.
var byPlatform = map[infer.Platform]Spec{
	infer.PlatformInstagram:    {1080, 1350, "Instagram Post", "4:5"},
	infer.PlatformLinkedIn:     {1200, 1350, "LinkedIn Post", "8:9"},
	infer.PlatformFacebook:     {1200, 630, "Facebook Post", "1.91:1"},
	infer.PlatformTwitter:      {1600, 900, "Twitter Post", "16:9"},
	infer.PlatformYouTube:      {1280, 720, "YouTube Thumbnail", "16:9"},
	infer.PlatformTikTok:       {1080, 1920, "TikTok Video", "9:16"},
	infer.PlatformPrint:        {2480, 3508, "A4 Print", "1:1.41"},
	infer.PlatformWeb:          {1920, 600, "Web Banner", "16:5"},
	infer.PlatformEmail:        {600, 200, "Email Header", "3:1"},
	infer.PlatformPresentation: {1920, 1080, "Presentation Slide", "16:9"},
}

// Lookup resolves the spec for a platform and optional content type. Pass an
// empty content type to get the platform default.
func Lookup(platform infer.Platform, content infer.ContentType) (Spec, bool) {
	if content != "" {
		if spec, ok := byContent[key{platform, content}]; ok {
			return spec, true
		}
	}
	spec, ok := byPlatform[platform]
	return spec, ok
}
