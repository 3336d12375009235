package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the API",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and clear stored tokens",
	RunE:  runLogout,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the authenticated profile",
	RunE:  runProfile,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE:  runProfileUpdate,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	RunE:  runPasswd,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(passwdCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringP("email", "e", "", "Account email")
	registerCmd.Flags().StringP("password", "p", "", "Account password")
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	profileUpdateCmd.Flags().String("first-name", "", "First name")
	profileUpdateCmd.Flags().String("last-name", "", "Last name")
	profileUpdateCmd.Flags().StringP("email", "e", "", "Account email")

	passwdCmd.Flags().String("old", "", "Current password")
	passwdCmd.Flags().String("new", "", "New password")
	_ = passwdCmd.MarkFlagRequired("old")
	_ = passwdCmd.MarkFlagRequired("new")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if err := a.session.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("%s", a.session.LastError())
	}

	user := a.session.User()
	fmt.Printf("Sesión iniciada como %s\n", user.ContactName())
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	firstName, _ := cmd.Flags().GetString("first-name")
	lastName, _ := cmd.Flags().GetString("last-name")

	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if firstName != "" {
		payload["first_name"] = firstName
	}
	if lastName != "" {
		payload["last_name"] = lastName
	}

	if err := a.session.Register(cmd.Context(), payload); err != nil {
		return fmt.Errorf("%s", a.session.LastError())
	}

	fmt.Printf("Cuenta creada: %s\n", a.session.User().Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.session.Logout(cmd.Context())
	fmt.Println("Sesión cerrada")
	return nil
}

func runProfile(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	user := a.session.User()
	fmt.Printf("ID:     %d\n", user.ID)
	fmt.Printf("Email:  %s\n", user.Email)
	fmt.Printf("Nombre: %s %s\n", user.FirstName, user.LastName)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fields := map[string]any{}
	if cmd.Flags().Changed("first-name") {
		v, _ := cmd.Flags().GetString("first-name")
		fields["first_name"] = v
	}
	if cmd.Flags().Changed("last-name") {
		v, _ := cmd.Flags().GetString("last-name")
		fields["last_name"] = v
	}
	if cmd.Flags().Changed("email") {
		v, _ := cmd.Flags().GetString("email")
		fields["email"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	user, err := a.session.UpdateProfile(cmd.Context(), fields)
	if err != nil {
		return fmt.Errorf("%s", a.session.LastError())
	}
	fmt.Printf("Perfil actualizado: %s\n", user.Email)
	return nil
}

func runPasswd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	oldPassword, _ := cmd.Flags().GetString("old")
	newPassword, _ := cmd.Flags().GetString("new")

	if err := a.session.ChangePassword(cmd.Context(), oldPassword, newPassword); err != nil {
		return fmt.Errorf("%s", a.session.LastError())
	}
	fmt.Println("Contraseña actualizada")
	return nil
}
