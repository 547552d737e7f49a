package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const demoPassword = "blogicum123"

func (a *app) newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with demo users, categories and posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := a.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)
			return SeedDemoData(gdb, cmd.OutOrStdout())
		},
	}
}

// SeedDemoData 生成演示数据；库中已有用户时跳过
func SeedDemoData(gdb *gorm.DB, out io.Writer) error {
	var count int64
	if err := gdb.Model(&db.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		fmt.Fprintln(out, "users already exist, skipping demo data")
		return nil
	}

	users := service.NewUserService(gdb)
	authors := make(map[string]*db.User)
	for _, name := range []string{"leo", "anna"} {
		user, err := users.Register(service.RegistrationInput{
			Username:        name,
			Password:        demoPassword,
			PasswordConfirm: demoPassword,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", name, err)
		}
		authors[name] = user
	}

	categories := service.NewCategoryService(gdb)
	categoryIDs := make(map[string]uint)
	for _, input := range []service.CategoryInput{
		{Title: "Путешествия", Slug: "travel", Description: "Заметки о поездках", IsPublished: true},
		{Title: "Кулинария", Slug: "food", Description: "Рецепты и впечатления", IsPublished: true},
		{Title: "Черновики", Slug: "drafts", Description: "Скрытая категория", IsPublished: false},
	} {
		category, err := categories.Create(input)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", input.Slug, err)
		}
		categoryIDs[input.Slug] = category.ID
	}

	location, err := categories.CreateLocation("Санкт-Петербург", true)
	if err != nil {
		return fmt.Errorf("seed location: %w", err)
	}

	posts := service.NewPostService(gdb)
	now := posts.Now()
	demo := []struct {
		title     string
		text      string
		author    string
		category  string
		published bool
		offset    time.Duration
		location  bool
	}{
		{title: "Белые ночи", text: "Гуляли по набережным до утра. **Очень** светло!", author: "leo", category: "travel", published: true, offset: -72 * time.Hour, location: true},
		{title: "Борщ по-домашнему", text: "Свёкла, капуста и немного терпения.", author: "anna", category: "food", published: true, offset: -48 * time.Hour},
		{title: "Планы на лето", text: "Пост запланирован и появится позже.", author: "leo", category: "travel", published: true, offset: 7 * 24 * time.Hour},
		{title: "Незаконченная заметка", text: "Видна только автору.", author: "anna", category: "food", published: false, offset: -24 * time.Hour},
		{title: "Идеи", text: "Пост в скрытой категории.", author: "leo", category: "drafts", published: true, offset: -12 * time.Hour},
	}

	var first *db.Post
	for _, item := range demo {
		categoryID := categoryIDs[item.category]
		input := service.PostInput{
			Title:       item.title,
			Text:        item.text,
			PubDate:     now.Add(item.offset),
			IsPublished: item.published,
			AuthorID:    authors[item.author].ID,
			CategoryID:  &categoryID,
		}
		if item.location {
			input.LocationID = &location.ID
		}
		post, err := posts.Create(input)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", item.title, err)
		}
		if first == nil {
			first = post
		}
	}

	comments := service.NewCommentService(gdb)
	if _, err := comments.Create(first.ID, authors["anna"].ID, "Завидую! Тоже хочу в Питер."); err != nil {
		return fmt.Errorf("seed comment: %w", err)
	}

	fmt.Fprintf(out, "demo data created: users leo/anna (password %s), %d posts\n", demoPassword, len(demo))
	return nil
}
