package tile

// Content is the closed tagged variant carried by a tile. Each tile type
// has exactly one concrete payload type; the codec in this package selects
// the variant from the tile's Type field, so adding a new type to the
// enumeration without extending ContentFor fails at the decode boundary
// rather than producing an untyped payload.
type Content interface {
	// TileType returns the tile type this payload belongs to.
	TileType() Type

	clone() Content
}

// ProfileContent is the payload of the single pinned profile tile.
type ProfileContent struct {
	Name      string `json:"name,omitempty" bson:"name,omitempty"`
	Role      string `json:"role,omitempty" bson:"role,omitempty"`
	Bio       string `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar    string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Location  string `json:"location,omitempty" bson:"location,omitempty"`
	Available bool   `json:"available,omitempty" bson:"available,omitempty"`
}

// SocialContent links to a profile on a social platform.
type SocialContent struct {
	Platform      string `json:"platform,omitempty" bson:"platform,omitempty"`
	Handle        string `json:"handle,omitempty" bson:"handle,omitempty"`
	URL           string `json:"url,omitempty" bson:"url,omitempty"`
	FollowerCount int    `json:"followerCount,omitempty" bson:"followerCount,omitempty"`
}

// TextContent is a free-form note.
type TextContent struct {
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Text  string `json:"text,omitempty" bson:"text,omitempty"`
}

// MediaContent embeds an image, track, or video.
type MediaContent struct {
	Kind        string `json:"type,omitempty" bson:"type,omitempty"` // "Image", "Track", ...
	URL         string `json:"url,omitempty" bson:"url,omitempty"`
	Track       string `json:"track,omitempty" bson:"track,omitempty"`
	Artist      string `json:"artist,omitempty" bson:"artist,omitempty"`
	Cover       string `json:"cover,omitempty" bson:"cover,omitempty"`
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	AutoOpen    bool   `json:"autoOpen,omitempty" bson:"autoOpen,omitempty"`
}

// LinkContent is an outbound link with optional scraped preview fields.
type LinkContent struct {
	URL          string `json:"url,omitempty" bson:"url,omitempty"`
	Label        string `json:"label,omitempty" bson:"label,omitempty"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
	PreviewImage string `json:"previewImage,omitempty" bson:"previewImage,omitempty"`
}

// HeroContent is a large banner block.
type HeroContent struct {
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Image    string `json:"image,omitempty" bson:"image,omitempty"`
}

// HeadingContent is a full-width section title.
type HeadingContent struct {
	Text string `json:"text,omitempty" bson:"text,omitempty"`
}

// TwitterContent embeds a timeline for a username.
type TwitterContent struct {
	Username string `json:"username,omitempty" bson:"username,omitempty"`
}

// NewsletterContent is a contact / signup call-to-action.
type NewsletterContent struct {
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ButtonText  string `json:"buttonText,omitempty" bson:"buttonText,omitempty"`
}

// MapContent shows a location pin.
type MapContent struct {
	Location string `json:"location,omitempty" bson:"location,omitempty"`
}

func (*ProfileContent) TileType() Type    { return TypeProfile }
func (*SocialContent) TileType() Type     { return TypeSocial }
func (*TextContent) TileType() Type       { return TypeText }
func (*MediaContent) TileType() Type      { return TypeMedia }
func (*LinkContent) TileType() Type       { return TypeLink }
func (*HeroContent) TileType() Type       { return TypeHero }
func (*HeadingContent) TileType() Type    { return TypeHeading }
func (*TwitterContent) TileType() Type    { return TypeTwitter }
func (*NewsletterContent) TileType() Type { return TypeNewsletter }
func (*MapContent) TileType() Type        { return TypeMap }

func (c *ProfileContent) clone() Content    { cp := *c; return &cp }
func (c *SocialContent) clone() Content     { cp := *c; return &cp }
func (c *TextContent) clone() Content       { cp := *c; return &cp }
func (c *MediaContent) clone() Content      { cp := *c; return &cp }
func (c *LinkContent) clone() Content       { cp := *c; return &cp }
func (c *HeroContent) clone() Content       { cp := *c; return &cp }
func (c *HeadingContent) clone() Content    { cp := *c; return &cp }
func (c *TwitterContent) clone() Content    { cp := *c; return &cp }
func (c *NewsletterContent) clone() Content { cp := *c; return &cp }
func (c *MapContent) clone() Content        { cp := *c; return &cp }

// ContentFor returns a zero-valued payload for the given tile type.
// The switch is exhaustive over the closed enumeration; unknown types
// return nil and must be rejected by the caller.
func ContentFor(t Type) Content {
	switch t {
	case TypeProfile:
		return &ProfileContent{}
	case TypeSocial:
		return &SocialContent{}
	case TypeText:
		return &TextContent{}
	case TypeMedia:
		return &MediaContent{}
	case TypeLink:
		return &LinkContent{}
	case TypeHero:
		return &HeroContent{}
	case TypeHeading:
		return &HeadingContent{}
	case TypeTwitter:
		return &TwitterContent{}
	case TypeNewsletter:
		return &NewsletterContent{}
	case TypeMap:
		return &MapContent{}
	}
	return nil
}
