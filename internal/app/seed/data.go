package seed

import "github.com/magabrotheeeer/blog-platform/internal/models"

const demoPassword = "Password123"

type demoUser struct {
	models.RegisterRequest
	Role models.Role
}

type demoBlog struct {
	AuthorEmail string
	models.BlogInput
}

var demoUsers = []demoUser{
	{RegisterRequest: models.RegisterRequest{Name: "Jane Doe", Email: "user@example.com"}, Role: models.RoleUser},
	{RegisterRequest: models.RegisterRequest{
		Name: "Alex Smith", Email: "author@example.com",
		Bio: "Alex is a seasoned writer exploring the depths of technology.",
	}, Role: models.RoleAuthor},
	{RegisterRequest: models.RegisterRequest{
		Name: "Maria Garcia", Email: "maria@example.com",
		Bio: "Maria specializes in UI/UX design.",
	}, Role: models.RoleAuthor},
	{RegisterRequest: models.RegisterRequest{Name: "Sam Wilson", Email: "admin@example.com"}, Role: models.RoleAdmin},
}

var demoBlogs = []demoBlog{
	{AuthorEmail: "author@example.com", BlogInput: models.BlogInput{
		Title:    "The Future of React: A Deep Dive into Server Components",
		Excerpt:  "React Server Components are changing the game. Discover how they work and what it means for your web applications.",
		Content:  "<p>React Server Components let developers write components that run exclusively on the server, reducing bundle sizes and improving initial page load times.</p>",
		ImageURL: "https://picsum.photos/seed/react/800/400",
		Category: "Technology",
		Tags:     []string{"React", "Web Development", "JavaScript"},
	}},
	{AuthorEmail: "maria@example.com", BlogInput: models.BlogInput{
		Title:    "Mastering Tailwind CSS for Rapid UI Development",
		Excerpt:  "Learn how to leverage the full power of Tailwind CSS to build beautiful, custom designs without ever leaving your HTML.",
		Content:  "<p>Tailwind CSS takes a utility-first approach. This article covers custom configurations, plugins and production optimization.</p>",
		ImageURL: "https://picsum.photos/seed/tailwind/800/400",
		Category: "Design",
		Tags:     []string{"CSS", "TailwindCSS", "Frontend"},
	}},
	{AuthorEmail: "author@example.com", BlogInput: models.BlogInput{
		Title:    "The Rise of Generative AI and Its Creative Potential",
		Excerpt:  "From art to code, generative AI is transforming creative industries. We look at the latest models and their implications.",
		Content:  "<p>Generative models are tools that artists, writers and developers use to push the boundaries of creativity. This post looks at the ethical considerations.</p>",
		ImageURL: "https://picsum.photos/seed/ai/800/400",
		Category: "AI",
		Tags:     []string{"Artificial Intelligence", "Machine Learning", "Creativity"},
	}},
}

// favoriteOwner получает в избранное первый демо-пост.
const favoriteOwner = "user@example.com"
