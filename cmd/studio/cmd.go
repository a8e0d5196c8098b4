package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"coursestudio/internal/authoring"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	out     io.Writer
	session authoring.Session
	deps    authoring.Deps
	nav     *authoring.History
	confirm authoring.Confirmer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  courses                                              - список курсов")
	fmt.Fprintln(cli.out, "  categories                                           - категории и подкатегории")
	fmt.Fprintln(cli.out, "  create-course -title T -category C -subcategory S    - создать курс")
	fmt.Fprintln(cli.out, "  course -course ID                                    - карточка курса и готовность к публикации")
	fmt.Fprintln(cli.out, "  sections -course ID                                  - разделы курса по порядку")
	fmt.Fprintln(cli.out, "  add-section -course ID -title T                      - добавить раздел в конец")
	fmt.Fprintln(cli.out, "  reorder -course ID -from I -to J                     - переставить раздел")
	fmt.Fprintln(cli.out, "  edit-section -course ID -section ID [-title -description -video -free]")
	fmt.Fprintln(cli.out, "  publish|unpublish -course ID [-section ID]           - публикация")
	fmt.Fprintln(cli.out, "  delete -course ID [-section ID] [-yes]               - удалить курс или раздел")
	fmt.Fprintln(cli.out, "  add-resource -course ID -section ID -name N -file PATH|URL")
	fmt.Fprintln(cli.out, "  delete-resource -course ID -section ID -id RID")
	fmt.Fprintln(cli.out, "  progress -course ID -section ID                      - переключить отметку о прохождении")
	fmt.Fprintln(cli.out, "  upload -kind image|video|resource -file PATH         - загрузить файл")
	fmt.Fprintln(cli.out, "  performance                                          - выручка по курсам")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	fs := flag.NewFlagSet(args[1], flag.ContinueOnError)
	fs.SetOutput(cli.out)
	courseID := fs.String("course", "", "ID курса")
	sectionID := fs.String("section", "", "ID раздела")
	title := fs.String("title", "", "название")
	category := fs.String("category", "", "ID категории")
	subcategory := fs.String("subcategory", "", "ID подкатегории")
	description := fs.String("description", "", "описание (HTML)")
	video := fs.String("video", "", "ссылка на видео или путь к файлу")
	free := fs.Bool("free", false, "бесплатный раздел")
	from := fs.Int("from", -1, "индекс перетаскиваемого раздела")
	to := fs.Int("to", -1, "индекс, куда отпустить")
	yes := fs.Bool("yes", false, "не спрашивать подтверждение")
	name := fs.String("name", "", "название материала")
	file := fs.String("file", "", "путь к файлу или URL")
	kind := fs.String("kind", "", "image|video|resource")
	id := fs.String("id", "", "ID материала")

	if err := fs.Parse(args[2:]); err != nil {
		return errHelp
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	need := func(vals ...*string) error {
		for _, v := range vals {
			if *v == "" {
				fs.Usage()
				return errHelp
			}
		}
		return nil
	}

	switch args[1] {
	case "courses":
		return cli.courses(ctx)
	case "categories":
		return cli.categories(ctx)
	case "create-course":
		if err := need(title, category, subcategory); err != nil {
			return err
		}
		return cli.createCourse(ctx, *title, *category, *subcategory)
	case "course":
		if err := need(courseID); err != nil {
			return err
		}
		return cli.course(ctx, *courseID)
	case "sections":
		if err := need(courseID); err != nil {
			return err
		}
		return cli.sections(ctx, *courseID)
	case "add-section":
		if err := need(courseID, title); err != nil {
			return err
		}
		return cli.addSection(ctx, *courseID, *title)
	case "reorder":
		if err := need(courseID); err != nil {
			return err
		}
		return cli.reorder(ctx, *courseID, *from, *to)
	case "edit-section":
		if err := need(courseID, sectionID); err != nil {
			return err
		}
		return cli.editSection(ctx, *courseID, *sectionID, func(v *authoring.SectionEditValues) {
			if set["title"] {
				v.Title = *title
			}
			if set["description"] {
				v.Description = *description
			}
			if set["video"] {
				v.VideoURL = *video
			}
			if set["free"] {
				v.IsFree = *free
			}
		})
	case "publish", "unpublish":
		if err := need(courseID); err != nil {
			return err
		}
		return cli.publish(ctx, *courseID, *sectionID, args[1] == "publish")
	case "delete":
		if err := need(courseID); err != nil {
			return err
		}
		return cli.delete(ctx, *courseID, *sectionID, *yes)
	case "add-resource":
		if err := need(courseID, sectionID, name, file); err != nil {
			return err
		}
		return cli.addResource(ctx, *courseID, *sectionID, *name, *file)
	case "delete-resource":
		if err := need(courseID, sectionID, id); err != nil {
			return err
		}
		return cli.deleteResource(ctx, *courseID, *sectionID, *id)
	case "progress":
		if err := need(courseID, sectionID); err != nil {
			return err
		}
		return cli.progress(ctx, *courseID, *sectionID)
	case "upload":
		if err := need(kind, file); err != nil {
			return err
		}
		url, err := cli.deps.Client.Upload(ctx, *kind, *file)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, url)
		return nil
	case "performance":
		return cli.performance(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) courses(ctx context.Context) error {
	page, err := authoring.LoadCoursesPage(ctx, cli.deps, cli.session)
	if err != nil {
		return err
	}
	for _, c := range page.Courses {
		state := "черновик"
		if c.IsPublished {
			state = "опубликован"
		}
		fmt.Fprintf(cli.out, "%s  %-12s %s\n", c.ID, state, c.Title)
	}
	return nil
}

func (cli *commandLine) categories(ctx context.Context) error {
	if err := authoring.Guard(cli.session); err != nil {
		return err
	}
	list, err := cli.deps.Client.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Fprintf(cli.out, "%s  %s\n", c.ID, c.Name)
		for _, s := range c.SubCategories {
			fmt.Fprintf(cli.out, "    %s  %s\n", s.ID, s.Name)
		}
	}
	return nil
}

func printFieldErrors(w io.Writer, err error) error {
	var fe authoring.FieldErrors
	if errors.As(err, &fe) {
		for field, msg := range fe {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
	return err
}

func (cli *commandLine) createCourse(ctx context.Context, title, category, sub string) error {
	page, err := authoring.LoadCoursesPage(ctx, cli.deps, cli.session)
	if err != nil {
		return err
	}
	form := page.Create
	form.SetTitle(title)
	form.SetCategory(category)
	form.SetSubCategory(sub)

	course, err := form.Submit(ctx)
	if err != nil {
		return printFieldErrors(cli.out, err)
	}
	fmt.Fprintf(cli.out, "%s → %s\n", course.ID, cli.nav.Current())
	return nil
}

func (cli *commandLine) course(ctx context.Context, courseID string) error {
	page, err := authoring.LoadCoursePage(ctx, cli.deps, cli.session, courseID)
	if err != nil {
		return err
	}
	c := page.Course
	fmt.Fprintf(cli.out, "%s\n%s\n\n", c.Title, page.Banner.Title)
	fmt.Fprintln(cli.out, page.Banner.Description)
	if len(page.Completion.Missing) > 0 {
		fmt.Fprintf(cli.out, "Не заполнено: %s\n", strings.Join(page.Completion.Missing, ", "))
	}
	fmt.Fprintf(cli.out, "Кнопка: %s (доступна: %t)\n", page.Publish.Label(), page.Publish.Enabled())
	return nil
}

func (cli *commandLine) sections(ctx context.Context, courseID string) error {
	page, err := authoring.LoadSectionsPage(ctx, cli.deps, cli.session, courseID)
	if err != nil {
		return err
	}
	for i, it := range page.List.Items() {
		flags := ""
		if it.IsPublished {
			flags += " [опубликован]"
		}
		if it.IsFree {
			flags += " [бесплатно]"
		}
		fmt.Fprintf(cli.out, "%d. %s  %s%s\n", i, it.ID, it.Title, flags)
	}
	return nil
}

func (cli *commandLine) addSection(ctx context.Context, courseID, title string) error {
	page, err := authoring.LoadSectionsPage(ctx, cli.deps, cli.session, courseID)
	if err != nil {
		return err
	}
	page.Create.SetTitle(title)
	section, err := page.Create.Submit(ctx)
	if err != nil {
		return printFieldErrors(cli.out, err)
	}
	fmt.Fprintf(cli.out, "%s (позиция %d)\n", section.ID, section.Position)
	return nil
}

func (cli *commandLine) reorder(ctx context.Context, courseID string, from, to int) error {
	page, err := authoring.LoadSectionsPage(ctx, cli.deps, cli.session, courseID)
	if err != nil {
		return err
	}
	if err := page.List.Drop(ctx, from, to); err != nil {
		return err
	}
	return cli.sections(ctx, courseID)
}

func (cli *commandLine) editSection(ctx context.Context, courseID, sectionID string, fn func(v *authoring.SectionEditValues)) error {
	page, err := authoring.LoadSectionEditPage(ctx, cli.deps, cli.session, courseID, sectionID)
	if err != nil {
		return err
	}
	page.Edit.Update(func(v *authoring.SectionEditValues) {
		fn(v)
		// локальный файл сначала загружаем
		if v.VideoURL != "" && !strings.Contains(v.VideoURL, "://") {
			if _, statErr := os.Stat(v.VideoURL); statErr == nil {
				url, upErr := cli.deps.Client.Upload(ctx, "video", v.VideoURL)
				if upErr != nil {
					err = upErr
					return
				}
				v.VideoURL = url
			}
		}
	})
	if err != nil {
		return err
	}
	return printFieldErrors(cli.out, page.Edit.Submit(ctx))
}

func (cli *commandLine) publish(ctx context.Context, courseID, sectionID string, publish bool) error {
	var ctl *authoring.PublishControl
	var missing []string
	if sectionID != "" {
		page, err := authoring.LoadSectionEditPage(ctx, cli.deps, cli.session, courseID, sectionID)
		if err != nil {
			return err
		}
		ctl, missing = page.Publish, page.Completion.Missing
	} else {
		page, err := authoring.LoadCoursePage(ctx, cli.deps, cli.session, courseID)
		if err != nil {
			return err
		}
		ctl, missing = page.Publish, page.Completion.Missing
	}

	if ctl.IsPublished() == publish {
		fmt.Fprintln(cli.out, "Статус уже установлен")
		return nil
	}
	err := ctl.Click(ctx)
	if errors.Is(err, authoring.ErrDisabled) {
		fmt.Fprintf(cli.out, "Публикация недоступна, не заполнено: %s\n", strings.Join(missing, ", "))
	}
	return err
}

func (cli *commandLine) delete(ctx context.Context, courseID, sectionID string, yes bool) error {
	if err := authoring.Guard(cli.session); err != nil {
		return err
	}
	ctl := authoring.NewDeleteControl(cli.deps.Client, cli.deps.Nav, cli.deps.Notify,
		authoring.Target{CourseID: courseID, SectionID: sectionID})

	confirm := cli.confirm
	if yes {
		confirm = authoring.ConfirmFunc(func(context.Context, string) bool { return true })
	}
	err := ctl.Click(ctx, confirm)
	if errors.Is(err, authoring.ErrCanceled) {
		return nil
	}
	return err
}

func (cli *commandLine) addResource(ctx context.Context, courseID, sectionID, name, file string) error {
	page, err := authoring.LoadSectionEditPage(ctx, cli.deps, cli.session, courseID, sectionID)
	if err != nil {
		return err
	}
	fileURL := file
	if !strings.Contains(file, "://") {
		if fileURL, err = cli.deps.Client.Upload(ctx, "resource", file); err != nil {
			return err
		}
	}
	page.Resources.Set(name, fileURL)
	_, err = page.Resources.Submit(ctx)
	return printFieldErrors(cli.out, err)
}

func (cli *commandLine) deleteResource(ctx context.Context, courseID, sectionID, id string) error {
	if err := authoring.Guard(cli.session); err != nil {
		return err
	}
	form := authoring.NewResourceForm(cli.deps.Client, cli.deps.Nav, cli.deps.Notify, courseID, sectionID)
	return form.Delete(ctx, id)
}

func (cli *commandLine) progress(ctx context.Context, courseID, sectionID string) error {
	page, err := authoring.LoadSectionEditPage(ctx, cli.deps, cli.session, courseID, sectionID)
	if err != nil {
		return err
	}
	return page.Progress.Click(ctx)
}

func (cli *commandLine) performance(ctx context.Context) error {
	page, err := authoring.LoadPerformancePage(ctx, cli.deps, cli.session)
	if err != nil {
		return err
	}
	return page.Chart.Render(cli.out, 40)
}
